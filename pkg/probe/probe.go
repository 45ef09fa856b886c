// Package probe runs the external OS utilities the collectors measure with.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"hostcheck/pkg/log"
)

// DefaultTimeout bounds a single command when no timeout is set.
const DefaultTimeout = 30 * time.Second

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timed out")

// Command describes a single external invocation.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// String returns the command line for logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured outcome of a command.
// A non-zero ExitCode is a normal result, not an error.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// OK reports whether the command exited with status zero.
func (r *Result) OK() bool {
	return r.ExitCode == 0
}

// Runner abstracts command lookup and execution so collectors can be tested without a host.
type Runner interface {
	// LookPath reports where the named utility lives, or an error when it is not installed.
	LookPath(name string) (string, error)

	// Run executes the command once and waits for it.
	// Errors are returned only when the command could not run to completion.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a runner whose commands default to the given timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{timeout: timeout}
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Name == "" {
		return nil, errors.New("command name is required")
	}

	timeout := command.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command.Name, command.Args...) // #nosec G204 - names come from a fixed set
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	log.Debug().
		Str("command", command.String()).
		Dur("duration", result.Duration).
		Err(err).
		Msg("Probe finished")

	if err == nil {
		return result, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w after %v: %s", ErrTimeout, timeout, command.Name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("failed to run %s: %w", command.Name, err)
}
