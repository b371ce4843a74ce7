package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/lama"
	"github.com/aretw0/lama/internal/presentation/graph"
	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/solver"
)

// Discover reports the host platform and where the solver was found.
// It returns domain.ErrExecutableNotFound when nothing was found.
func Discover(ctx context.Context, app *App) error {
	info, err := solver.PlatformInfo()
	if err != nil {
		return err
	}
	app.Out.Printf("%s\n", info)

	path, ok, err := app.Workbench().FindSolver(ctx)
	if err != nil {
		return err
	}
	if !ok {
		app.Out.Status(false, "solver not found")
		if p, perr := solver.Current(); perr == nil {
			d := solver.NewDiscovery(p, nil, solver.WithSearchPaths(app.Config.Solver.SearchPaths...))
			for _, c := range d.Candidates() {
				app.Out.Printf("  checked %s\n", c)
			}
			app.Out.Printf("  checked %s %s\n", p.SearchCommand(), p.ExecutableName())
		}
		return domain.ErrExecutableNotFound
	}
	app.Out.Status(true, "solver: %s", path)
	return nil
}

// RunOptions are the flags of `lama run`.
type RunOptions struct {
	Input      string
	Executable string        // overrides solver.executable
	WorkDir    string        // overrides solver.working_dir
	Timeout    time.Duration // overrides solver.timeout; 0 means none
	Trace      bool          // print the run's state path as a Mermaid diagram
}

// Run executes the solver on opts.Input, streaming its captured output to the
// CLI output once it exits. The returned code is the solver exit code.
func Run(ctx context.Context, app *App, opts RunOptions) (int, error) {
	sc := NewSignalContext(ctx)
	defer sc.Stop()

	runCtx := context.Context(sc)
	timeout := app.Config.Solver.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	req := solver.Request{
		Executable: opts.Executable,
		Input:      opts.Input,
		WorkDir:    opts.WorkDir,
	}
	if req.Executable == "" {
		req.Executable = app.Config.Solver.Executable
	}
	if req.WorkDir == "" {
		req.WorkDir = app.Config.Solver.WorkingDir
	}

	var (
		trace graph.Trace
		extra []lama.Option
	)
	if opts.Trace {
		extra = append(extra, lama.WithRunHooks(trace.Hooks()))
		defer func() {
			if ov := trace.Overlay(); ov != nil {
				_ = app.Out.Markdown("```mermaid\n" + graph.GenerateMermaid(ov) + "```\n")
			}
		}()
	}

	res, err := app.Workbench(extra...).Run(runCtx, req)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			switch {
			case sc.Signal() != nil:
				app.Out.Status(false, "interrupted by %v", sc.Signal())
			case errors.Is(err, context.DeadlineExceeded):
				app.Out.Status(false, "timed out after %v", timeout)
			}
		}
		return -1, err
	}

	if res.Stdout != "" {
		app.Out.Printf("%s", res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(os.Stderr, res.Stderr)
	}
	app.Out.Status(res.ExitCode == 0, "%s finished with exit code %d in %v",
		res.Command.Path, res.ExitCode, res.Duration.Round(time.Millisecond))
	return res.ExitCode, nil
}
