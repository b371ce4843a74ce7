package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/lama"
	"github.com/aretw0/lama/pkg/adapters/file"
	"github.com/aretw0/lama/pkg/adapters/memory"
	"github.com/aretw0/lama/pkg/adapters/redis"
	"github.com/aretw0/lama/pkg/config"
	"github.com/aretw0/lama/pkg/material"
	"github.com/aretw0/lama/pkg/ports"
	"github.com/aretw0/lama/pkg/solver"
)

// newStore builds the configured MaterialStore. The returned func releases
// its resources.
func newStore(ctx context.Context, cfg config.Config) (ports.MaterialStore, func() error, error) {
	noop := func() error { return nil }
	v := material.NewValidator(material.WithOptions(cfg.Tolerances))

	switch cfg.Store.Backend {
	case "", config.BackendMemory:
		return memory.NewStore(), noop, nil
	case config.BackendFile:
		return file.NewStore(cfg.Store.Dir, v), noop, nil
	case config.BackendRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
			redis.WithValidator(v),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", rc.Addr, err)
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// workbenchOptions translates the configuration into Workbench options.
func (a *App) workbenchOptions() []lama.Option {
	sc := a.Config.Solver
	solverOpts := []solver.Option{solver.WithExtensions(sc.Extensions...)}
	if len(sc.SearchPaths) > 0 {
		solverOpts = append(solverOpts, solver.WithSearchPaths(sc.SearchPaths...))
	}

	opts := []lama.Option{
		lama.WithLogger(a.Logger),
		lama.WithTolerances(a.Config.Tolerances),
		lama.WithSolverOptions(solverOpts...),
	}
	if sc.Executable != "" {
		opts = append(opts, lama.WithExecutable(sc.Executable))
	}
	return opts
}

// Workbench creates a Workbench from the configuration, with an in-memory
// store unless the caller adds lama.WithStore.
func (a *App) Workbench(extra ...lama.Option) *lama.Workbench {
	return lama.New(append(a.workbenchOptions(), extra...)...)
}
