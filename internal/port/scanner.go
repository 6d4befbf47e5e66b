package port

import (
	"context"
	"fmt"
	"strings"

	"portlist/internal/command"
	"portlist/internal/tabular"
)

// Required lsof columns. FD, DEVICE and SIZE/OFF also appear in real
// output but carry nothing this tool reports, so they are not required.
var lsofColumns = []string{"COMMAND", "PID", "USER", "TYPE", "NODE", "NAME"}

// listenMarker tags listening sockets in the NAME column.
const listenMarker = "(LISTEN)"

// LsofScanner discovers listening ports by running lsof and parsing
// its output.
type LsofScanner struct {
	runner command.Runner
}

// NewLsofScanner creates a scanner that invokes lsof through runner.
func NewLsofScanner(runner command.Runner) *LsofScanner {
	return &LsofScanner{runner: runner}
}

// ListeningPorts runs `lsof -i -n -P` and returns every socket in a
// listening state, in output order. lsof exits 1 when it simply found
// no open internet files; that case, recognized by a blank stderr, is
// an empty result rather than a failure.
func (s *LsofScanner) ListeningPorts(ctx context.Context) ([]ListeningPort, error) {
	res, err := s.runner.Run(ctx, "lsof", "-i", "-n", "-P")
	if err != nil {
		return nil, fmt.Errorf("lsof: %w", err)
	}

	stdout := string(res.Stdout)
	if !res.Success() {
		stderr := strings.TrimSpace(string(res.Stderr))
		if stderr != "" || (res.ExitCode != 1 && res.ExitCode != -1) {
			if stderr == "" {
				return nil, fmt.Errorf("lsof: %w (exit %d)", command.ErrFailed, res.ExitCode)
			}
			return nil, fmt.Errorf("lsof: %w: %s", command.ErrFailed, stderr)
		}
		// Nothing found. Substitute a header-only table so the normal
		// parse path yields zero records.
		stdout = strings.Join(lsofColumns, " ") + "\n"
	}

	lines := tabular.SplitLines(stdout)
	cols, err := tabular.ExtractHeaderColumns(lines, lsofColumns, nil)
	if err != nil {
		return nil, fmt.Errorf("lsof: %w", err)
	}
	ix := tabular.NewColumnIndex(cols)

	var ports []ListeningPort
	for _, row := range tabular.MarkedDetailRows(lines[1:], listenMarker) {
		p, err := portFromRow(ix, row)
		if err != nil {
			return nil, fmt.Errorf("lsof: %w", err)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// portFromRow maps one marked detail row through the column index.
// Every recognized lsof column is a single token, so no remainder
// handling is needed here.
func portFromRow(ix tabular.ColumnIndex, row tabular.Row) (ListeningPort, error) {
	cmd, err := ix.Value(row, "COMMAND")
	if err != nil {
		return ListeningPort{}, err
	}
	pid, err := ix.Value(row, "PID")
	if err != nil {
		return ListeningPort{}, err
	}
	user, err := ix.Value(row, "USER")
	if err != nil {
		return ListeningPort{}, err
	}
	kind, err := ix.Value(row, "TYPE")
	if err != nil {
		return ListeningPort{}, err
	}
	transport, err := ix.Value(row, "NODE")
	if err != nil {
		return ListeningPort{}, err
	}
	address, err := ix.Value(row, "NAME")
	if err != nil {
		return ListeningPort{}, err
	}

	return ListeningPort{
		Command:   cmd,
		PID:       pid,
		User:      user,
		Kind:      kind,
		Transport: transport,
		Address:   address,
	}, nil
}
