package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all portlist configuration.
type Config struct {
	Verbosity       string   `yaml:"verbosity"`        // "", "verbose" or "very-verbose"; flags win
	RefreshInterval int      `yaml:"refresh_interval"` // seconds, interactive mode
	Exclude         []string `yaml:"exclude"`          // command names to hide
	ColorEnabled    bool     `yaml:"color"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Verbosity:       "",
		RefreshInterval: 2,
		Exclude:         []string{},
		ColorEnabled:    true,
	}
}

// Load loads config from the given path. If path is empty, it uses the
// default location (~/.config/portlist/config.yaml). If the file does
// not exist, it returns defaults without creating the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "portlist", "config.yaml")
}
