package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error kinds reported when an external tool cannot deliver usable output.
// Callers wrap them with the tool name and match with errors.Is.
var (
	// ErrNotFound means the executable could not be launched at all.
	ErrNotFound = errors.New("executable not found")

	// ErrFailed means the executable ran but reported failure.
	ErrFailed = errors.New("command failed unexpectedly")
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with code 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner abstracts external command execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// RealRunner executes real commands. Stdout and stderr are buffered in
// full before Run returns; there is no streaming. The returned error is
// reserved for launch failures; a non-zero exit is reported through
// Result, not as an error.
type RealRunner struct{}

// Run executes a command and captures its output and exit code.
// ExitCode is -1 when the process was terminated by a signal.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	case errors.Is(err, exec.ErrNotFound):
		return Result{}, ErrNotFound
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
}

// MockRunner returns canned responses for testing.
type MockRunner struct {
	Result Result
	Err    error
}

// Run returns the pre-configured result and error.
func (m *MockRunner) Run(_ context.Context, _ string, _ ...string) (Result, error) {
	return m.Result, m.Err
}

// MultiMockRunner returns different responses based on the command.
// Keys are "name arg1 arg2 ..." strings.
type MultiMockRunner struct {
	Responses map[string]MockResponse
}

// MockResponse holds a single command's result and error.
type MockResponse struct {
	Result Result
	Err    error
}

// Run looks up the command key and returns its pre-configured response.
// Falls back to an empty successful result if no match is found.
func (m *MultiMockRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + strings.Join(args, " ")
	}
	if resp, ok := m.Responses[key]; ok {
		return resp.Result, resp.Err
	}
	return Result{}, nil
}
