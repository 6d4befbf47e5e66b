package process

import (
	"context"
	"fmt"
	"strings"

	"portlist/internal/command"
	"portlist/internal/tabular"
)

// Required ps columns. STARTED is an alternate spelling of START used
// by some ps builds, so it is folded into the canonical name before
// validation.
var (
	psColumns  = []string{"USER", "PID", "%CPU", "%MEM", "START", "TIME", "COMMAND"}
	psSynonyms = map[string]string{"STARTED": "START"}
)

// ProcessInfo is one process row as reported by ps. Fields hold the
// column text verbatim; Command is the full command line including its
// arguments.
type ProcessInfo struct {
	User       string
	PID        string
	CPUPercent string
	MemPercent string
	Start      string
	Time       string
	Command    string
}

// PsScanner lists processes by running ps and parsing its output.
type PsScanner struct {
	runner command.Runner
}

// NewPsScanner creates a PsScanner that invokes ps through runner.
func NewPsScanner(runner command.Runner) *PsScanner {
	return &PsScanner{runner: runner}
}

// ProcessesInfo runs `ps aux` and returns the processes whose PID is in
// pids, preserving ps output order. Unlike lsof there is no exit code
// that means "nothing to report": any ps failure is an error.
func (s *PsScanner) ProcessesInfo(ctx context.Context, pids []string) ([]ProcessInfo, error) {
	res, err := s.runner.Run(ctx, "ps", "aux")
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}
	if !res.Success() {
		stderr := strings.TrimSpace(string(res.Stderr))
		if stderr == "" {
			return nil, fmt.Errorf("ps: %w (exit %d)", command.ErrFailed, res.ExitCode)
		}
		return nil, fmt.Errorf("ps: %w: %s", command.ErrFailed, stderr)
	}

	lines := tabular.SplitLines(string(res.Stdout))
	cols, err := tabular.ExtractHeaderColumns(lines, psColumns, psSynonyms)
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}
	ix := tabular.NewColumnIndex(cols)

	wanted := make(map[string]struct{}, len(pids))
	for _, pid := range pids {
		wanted[pid] = struct{}{}
	}

	var infos []ProcessInfo
	for _, row := range tabular.DetailRows(lines[1:]) {
		info, err := infoFromRow(ix, row)
		if err != nil {
			return nil, fmt.Errorf("ps: %w", err)
		}
		if _, ok := wanted[info.PID]; !ok {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// infoFromRow maps one detail row through the column index. COMMAND is
// the last recognized column and absorbs everything to the end of the
// line, since command lines contain spaces.
func infoFromRow(ix tabular.ColumnIndex, row tabular.Row) (ProcessInfo, error) {
	user, err := ix.Value(row, "USER")
	if err != nil {
		return ProcessInfo{}, err
	}
	pid, err := ix.Value(row, "PID")
	if err != nil {
		return ProcessInfo{}, err
	}
	cpu, err := ix.Value(row, "%CPU")
	if err != nil {
		return ProcessInfo{}, err
	}
	mem, err := ix.Value(row, "%MEM")
	if err != nil {
		return ProcessInfo{}, err
	}
	start, err := ix.Value(row, "START")
	if err != nil {
		return ProcessInfo{}, err
	}
	elapsed, err := ix.Value(row, "TIME")
	if err != nil {
		return ProcessInfo{}, err
	}
	cmd, err := ix.Remainder(row, "COMMAND")
	if err != nil {
		return ProcessInfo{}, err
	}

	return ProcessInfo{
		User:       user,
		PID:        pid,
		CPUPercent: cpu,
		MemPercent: mem,
		Start:      start,
		Time:       elapsed,
		Command:    cmd,
	}, nil
}
