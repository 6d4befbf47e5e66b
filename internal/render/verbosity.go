package render

import "strings"

// Verbosity selects how much detail the rendered table carries.
type Verbosity int

const (
	// Normal shows only what lsof reports.
	Normal Verbosity = iota
	// Verbose adds the full process command line from ps.
	Verbose
	// VeryVerbose adds resource usage and start time as well.
	VeryVerbose
)

// ParseVerbosity maps a configuration value to a Verbosity. Unknown
// values fall back to Normal.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose":
		return Verbose
	case "very-verbose":
		return VeryVerbose
	default:
		return Normal
	}
}

// String returns the configuration spelling of v.
func (v Verbosity) String() string {
	switch v {
	case Verbose:
		return "verbose"
	case VeryVerbose:
		return "very-verbose"
	default:
		return "normal"
	}
}
