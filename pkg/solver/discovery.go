package solver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/lama/pkg/ports"
)

// Discovery locates the solver executable on a host.
type Discovery struct {
	platform Platform
	runner   ports.ProcessRunner
	stat     StatFunc
	extra    []string
	logger   *slog.Logger
}

// NewDiscovery creates a Discovery for platform p. The runner is used for the
// PATH lookup fallback ("which" or "where").
func NewDiscovery(p Platform, runner ports.ProcessRunner, opts ...Option) *Discovery {
	s := newSettings(opts)
	return &Discovery{
		platform: p,
		runner:   runner,
		stat:     s.stat,
		extra:    s.searchPaths,
		logger:   s.logger,
	}
}

// Candidates returns the ordered list of paths probed before the PATH lookup.
func (d *Discovery) Candidates() []string {
	out := append([]string(nil), d.extra...)
	return append(out, d.platform.WellKnownPaths()...)
}

// FindExecutable returns the first existing regular file among the candidate
// paths, falling back to the OS search command. ok is false when nothing is
// found; "not found" is never an error.
func (d *Discovery) FindExecutable(ctx context.Context) (path string, ok bool) {
	for _, candidate := range d.Candidates() {
		if d.isRegularFile(candidate) {
			d.logger.Debug("solver found at well-known path", "path", candidate)
			return candidate, true
		}
	}

	if d.runner == nil {
		return "", false
	}

	search := d.platform.SearchCommand()
	res, err := d.runner.Run(ctx, ports.Command{
		Path: search,
		Args: []string{d.platform.ExecutableName()},
	})
	if err != nil {
		d.logger.Debug("solver lookup failed", "command", search, "err", err)
		return "", false
	}
	if res.ExitCode != 0 {
		d.logger.Debug("solver not on PATH", "command", search, "exit_code", res.ExitCode)
		return "", false
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			d.logger.Debug("solver found on PATH", "path", line)
			return line, true
		}
	}
	return "", false
}

func (d *Discovery) isRegularFile(path string) bool {
	info, err := d.stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindExecutable classifies the host and searches it for the solver.
// The only error is domain.ErrUnsupportedPlatform.
func FindExecutable(ctx context.Context, runner ports.ProcessRunner, opts ...Option) (string, bool, error) {
	p, err := Current()
	if err != nil {
		return "", false, err
	}
	path, ok := NewDiscovery(p, runner, opts...).FindExecutable(ctx)
	return path, ok, nil
}
