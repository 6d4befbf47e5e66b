package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"portlist/internal/command"
	"portlist/internal/config"
	"portlist/internal/port"
	"portlist/internal/process"
	"portlist/internal/render"
	"portlist/internal/tui"
)

var (
	// Set via ldflags at build time.
	version = "dev"

	// Global flags.
	verboseFlag     bool
	veryVerboseFlag bool
	jsonOutput      bool
	interactive     bool
	configPath      string
	noColor         bool
)

// runner executes the external tools; tests swap it for mocks.
var runner command.Runner = &command.RealRunner{}

var rootCmd = &cobra.Command{
	Use:   "portlist [port|range ...]",
	Short: "List listening ports and the processes behind them",
	Long: `portlist shows which processes are listening on which TCP and UDP
ports, as reported by lsof. Positional arguments restrict the listing
to the given port numbers or inclusive ranges (for example 8080 or
3000-4000). The verbose modes join each listener with its ps row for
the full command line and resource usage.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute parses the massaged command line and runs the root command.
func Execute() error {
	rootCmd.SetArgs(rewriteVerbosityTokens(os.Args[1:]))
	return rootCmd.Execute()
}

// ExitCode maps an Execute error to the process exit status: usage
// mistakes exit 2, everything else 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("portlist %s\n", version))
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err.Error()}
	})

	flags := rootCmd.Flags()
	flags.BoolVar(&verboseFlag, "verbose", false, "Add the full process command line (-vv)")
	flags.BoolVar(&veryVerboseFlag, "very-verbose", false, "Add process CPU, memory, start time and command line (-vvv)")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Live table that refreshes until quit")
	flags.StringVar(&configPath, "config", "", "Config file path (default ~/.config/portlist/config.yaml)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colors in interactive mode")
}

func runRoot(cmd *cobra.Command, args []string) error {
	allowed, err := allowedPorts(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if noColor {
		cfg.ColorEnabled = false
	}

	// Flags win over the configured default; -vvv wins over -vv.
	verbosity := render.ParseVerbosity(cfg.Verbosity)
	if verboseFlag {
		verbosity = render.Verbose
	}
	if veryVerboseFlag {
		verbosity = render.VeryVerbose
	}

	if interactive {
		p := tea.NewProgram(tui.New(runner, cfg, allowed, verbosity, version), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	ports, err := listPorts(context.Background(), cfg, allowed, verbosity)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), ports)
	}
	if len(ports) == 0 {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.ListeningPortTable(ports, verbosity))
	return nil
}

// listPorts runs the listing pipeline: scan, exclusion list, port
// filter, then enrichment when the verbosity calls for process detail.
// A nil allowed set means no port filtering.
func listPorts(ctx context.Context, cfg *config.Config, allowed map[string]struct{}, verbosity render.Verbosity) ([]port.ListeningPort, error) {
	ports, err := port.NewLsofScanner(runner).ListeningPorts(ctx)
	if err != nil {
		return nil, err
	}

	ports = port.ExcludeCommands(ports, cfg.Exclude)
	if allowed != nil {
		ports = port.KeepAllowedPorts(ports, allowed)
	}
	if verbosity == render.Normal || len(ports) == 0 {
		return ports, nil
	}

	processes, err := process.NewPsScanner(runner).ProcessesInfo(ctx, port.PIDs(ports))
	if err != nil {
		return nil, err
	}
	for i := range ports {
		ports[i].EnrichWithProcessInfo(processes)
	}
	return ports, nil
}

func writeJSON(w io.Writer, ports []port.ListeningPort) error {
	type jsonProcess struct {
		User       string `json:"user"`
		PID        string `json:"pid"`
		CPUPercent string `json:"cpu_percent"`
		MemPercent string `json:"mem_percent"`
		Start      string `json:"start"`
		Time       string `json:"time"`
		Command    string `json:"command"`
	}
	type jsonPort struct {
		Command string       `json:"command"`
		PID     string       `json:"pid"`
		User    string       `json:"user"`
		Type    string       `json:"type"`
		Node    string       `json:"node"`
		Address string       `json:"address"`
		Process *jsonProcess `json:"process,omitempty"`
	}

	out := make([]jsonPort, len(ports))
	for i, p := range ports {
		out[i] = jsonPort{
			Command: p.Command,
			PID:     p.PID,
			User:    p.User,
			Type:    p.Kind,
			Node:    p.Transport,
			Address: p.Address,
		}
		if p.Process != nil {
			out[i].Process = &jsonProcess{
				User:       p.Process.User,
				PID:        p.Process.PID,
				CPUPercent: p.Process.CPUPercent,
				MemPercent: p.Process.MemPercent,
				Start:      p.Process.Start,
				Time:       p.Process.Time,
				Command:    p.Process.Command,
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
