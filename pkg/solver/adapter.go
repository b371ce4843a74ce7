package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/ports"
)

// Adapter validates and synchronously runs the solver against an input deck.
// It holds no per-run state and imposes no global lock; concurrent runs must
// use distinct input paths.
type Adapter struct {
	runner     ports.ProcessRunner
	stat       StatFunc
	extensions []string
	hooks      Hooks
	logger     *slog.Logger
}

// NewAdapter creates an Adapter spawning processes through runner.
func NewAdapter(runner ports.ProcessRunner, opts ...Option) *Adapter {
	s := newSettings(opts)
	return &Adapter{
		runner:     runner,
		stat:       s.stat,
		extensions: s.extensions,
		hooks:      s.hooks,
		logger:     s.logger,
	}
}

// ValidateExecutable reports whether path names an existing regular file.
func (a *Adapter) ValidateExecutable(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := a.stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Run executes `<executable> -i <input basename>` and blocks until the
// process exits or ctx is done. A non-zero exit code is returned in Result,
// not as an error. Errors are *domain.ExecutionError values wrapping one of
// ErrExecutableNotFound, ErrInvalidInput, ErrProcessLaunch or ErrCancelled.
func (a *Adapter) Run(ctx context.Context, req Request) (res Result, err error) {
	r := &run{ctx: ctx, req: req, state: Idle, hooks: a.hooks}
	start := time.Now()

	defer func() {
		if err != nil {
			r.to(Failed)
			a.logger.Warn("solver run failed", "input", req.Input, "err", err)
		} else {
			a.logger.Info("solver run completed", "input", req.Input, "exit_code", res.ExitCode, "duration", res.Duration)
		}
		if a.hooks.OnFinish != nil {
			a.hooks.OnFinish(ctx, req, res, err)
		}
	}()

	r.to(Validating)
	if err := a.validate(req); err != nil {
		return Result{}, err
	}

	r.to(Launching)
	cmd, err := a.command(req)
	if err != nil {
		return Result{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, &domain.ExecutionError{Op: "launch", Path: req.Input, Code: domain.ErrCancelled, Err: ctxErr}
	}
	a.logger.Debug("launching solver", "path", cmd.Path, "args", cmd.Args, "dir", cmd.Dir)

	r.to(Running)
	out, runErr := a.runner.Run(ctx, cmd)
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, &domain.ExecutionError{Op: "run", Path: req.Input, Code: domain.ErrCancelled, Err: ctxErr}
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return Result{}, &domain.ExecutionError{Op: "run", Path: req.Input, Code: domain.ErrCancelled, Err: runErr}
		}
		return Result{}, &domain.ExecutionError{Op: "launch", Path: cmd.Path, Code: domain.ErrProcessLaunch, Err: runErr}
	}

	r.to(Completed)
	return Result{
		ExitCode: out.ExitCode,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Command:  cmd,
		Duration: elapsed,
	}, nil
}

func (a *Adapter) validate(req Request) error {
	if strings.TrimSpace(req.Executable) == "" {
		return &domain.ExecutionError{Op: "validate", Path: req.Executable, Code: domain.ErrExecutableNotFound,
			Err: errors.New("executable path is empty")}
	}
	info, err := a.stat(req.Executable)
	if err != nil {
		return &domain.ExecutionError{Op: "validate", Path: req.Executable, Code: domain.ErrExecutableNotFound, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &domain.ExecutionError{Op: "validate", Path: req.Executable, Code: domain.ErrExecutableNotFound,
			Err: errors.New("not a regular file")}
	}

	if strings.TrimSpace(req.Input) == "" {
		return &domain.ExecutionError{Op: "validate", Path: req.Input, Code: domain.ErrInvalidInput,
			Err: errors.New("input path is empty")}
	}
	info, err = a.stat(req.Input)
	if err != nil {
		return &domain.ExecutionError{Op: "validate", Path: req.Input, Code: domain.ErrInvalidInput, Err: err}
	}
	if info.IsDir() {
		return &domain.ExecutionError{Op: "validate", Path: req.Input, Code: domain.ErrInvalidInput,
			Err: errors.New("input is a directory")}
	}
	if !a.acceptsExtension(req.Input) {
		return &domain.ExecutionError{Op: "validate", Path: req.Input, Code: domain.ErrInvalidInput,
			Err: fmt.Errorf("extension must be one of %s", strings.Join(a.extensions, ", "))}
	}
	return nil
}

func (a *Adapter) acceptsExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range a.extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// command builds the solver invocation. The solver takes the deck basename
// without extension and resolves it against its working directory, so when
// WorkDir points elsewhere the full path (minus extension) is passed.
func (a *Adapter) command(req Request) (ports.Command, error) {
	inputDir := filepath.Dir(req.Input)
	base := strings.TrimSuffix(filepath.Base(req.Input), filepath.Ext(req.Input))

	dir := req.WorkDir
	arg := base
	if dir == "" {
		dir = inputDir
	} else if !samePath(dir, inputDir) {
		abs, err := filepath.Abs(filepath.Join(inputDir, base))
		if err != nil {
			return ports.Command{}, &domain.ExecutionError{Op: "launch", Path: req.Input, Code: domain.ErrInvalidInput, Err: err}
		}
		arg = abs
	}

	return ports.Command{
		Path: req.Executable,
		Args: []string{"-i", arg},
		Dir:  dir,
	}, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
