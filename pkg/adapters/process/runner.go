package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/aretw0/lama/pkg/ports"
)

// Runner implements ports.ProcessRunner by spawning local processes.
type Runner struct {
	env       []string
	waitDelay time.Duration
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithEnv appends KEY=VALUE pairs to the environment of every child.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithWaitDelay bounds how long Run waits for output pipes after the child
// is killed on cancellation.
func WithWaitDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.waitDelay = d
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		waitDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run spawns cmd with stdout and stderr captured in memory and blocks until
// it exits. A non-zero exit status is reported in the result, not as an
// error, nor is a descendant holding the output pipes open after the child
// exits. When ctx is done the child is killed and ctx.Err() is returned.
// exec.Cmd.Run waits for the process on every path, so no handle outlives
// the call.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) (ports.ProcessResult, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = r.waitDelay
	if env := append(append([]string(nil), r.env...), cmd.Env...); len(env) > 0 {
		c.Env = append(c.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	result := ports.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	// The child exited but a descendant kept its output pipes open past
	// WaitDelay; the exit status and output so far still stand.
	if errors.Is(err, exec.ErrWaitDelay) {
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
