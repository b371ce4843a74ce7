package lama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/lama/pkg/adapters/file"
	httpapi "github.com/aretw0/lama/pkg/adapters/http"
	"github.com/aretw0/lama/pkg/adapters/memory"
	"github.com/aretw0/lama/pkg/adapters/process"
	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/material"
	"github.com/aretw0/lama/pkg/observability"
	"github.com/aretw0/lama/pkg/ports"
	"github.com/aretw0/lama/pkg/solver"
)

// Workbench is the high-level entry point for the lama library.
// It ties material validation, tensor construction, persistence and the
// external solver together behind one API.
type Workbench struct {
	validator  *material.Validator
	builder    *material.Builder
	tolerances material.Options
	store      ports.MaterialStore
	runner     ports.ProcessRunner
	metrics    *observability.Metrics
	logger     *slog.Logger
	executable string
	solverOpts []solver.Option
	runHooks   solver.Hooks
}

// Option defines a functional option for configuring the Workbench.
type Option func(*Workbench)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbench) {
		w.logger = logger
	}
}

// WithMetrics records validations, tensor builds and solver runs.
func WithMetrics(m *observability.Metrics) Option {
	return func(w *Workbench) {
		w.metrics = m
	}
}

// WithStore sets the material store (in-memory by default).
func WithStore(s ports.MaterialStore) Option {
	return func(w *Workbench) {
		w.store = s
	}
}

// WithTolerances overrides the numerical tolerances. Zero fields keep their default.
func WithTolerances(o material.Options) Option {
	return func(w *Workbench) {
		material.WithOptions(o)(&w.tolerances)
	}
}

// WithProcessRunner replaces the os/exec runner used for discovery and runs.
func WithProcessRunner(r ports.ProcessRunner) Option {
	return func(w *Workbench) {
		w.runner = r
	}
}

// WithExecutable pins the solver executable, skipping discovery.
func WithExecutable(path string) Option {
	return func(w *Workbench) {
		w.executable = path
	}
}

// WithSolverOptions passes options to solver discovery and the run adapter.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(w *Workbench) {
		w.solverOpts = append(w.solverOpts, opts...)
	}
}

// WithRunHooks registers hooks observing solver runs.
func WithRunHooks(h solver.Hooks) Option {
	return func(w *Workbench) {
		w.runHooks = h
	}
}

// New initializes a Workbench.
func New(opts ...Option) *Workbench {
	w := &Workbench{
		tolerances: material.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.store == nil {
		w.store = memory.NewStore()
	}
	if w.runner == nil {
		w.runner = process.NewRunner()
	}
	w.validator = material.NewValidator(material.WithOptions(w.tolerances))
	w.builder = material.NewBuilder(material.WithOptions(w.tolerances))
	return w
}

// Tolerances returns the effective numerical tolerances.
func (w *Workbench) Tolerances() material.Options {
	return w.tolerances
}

// Store returns the material store.
func (w *Workbench) Store() ports.MaterialStore {
	return w.store
}

// Define validates fields as a material of the given kind.
func (w *Workbench) Define(ctx context.Context, kind domain.Kind, fields material.Fields) (domain.Material, error) {
	m, err := w.validator.Validate(kind, fields)
	w.recordValidation(kind, err)
	return m, err
}

// Decode validates a record carrying its own "kind" entry.
func (w *Workbench) Decode(ctx context.Context, record material.Fields) (domain.Material, error) {
	m, err := w.validator.Decode(record)
	kind := domain.Kind("unknown")
	if m != nil {
		kind = m.Kind()
	} else if k, perr := domain.ParseKind(kindOf(record)); perr == nil {
		kind = k
	}
	w.recordValidation(kind, err)
	return m, err
}

// Tensor builds the 6x6 stiffness tensor of m.
func (w *Workbench) Tensor(ctx context.Context, m domain.Material) (domain.StiffnessTensor, error) {
	t, err := w.builder.Build(m)
	if w.metrics != nil {
		w.metrics.RecordBuild(m.Kind(), err)
	}
	if err != nil && !errors.Is(err, domain.ErrNoTensor) {
		w.logger.Warn("tensor build failed", "material", m.Common().Name, "err", err)
	}
	return t, err
}

// Save stores m under its name.
func (w *Workbench) Save(ctx context.Context, m domain.Material) error {
	return w.store.Save(ctx, m)
}

// Load fetches a stored material by name.
func (w *Workbench) Load(ctx context.Context, name string) (domain.Material, error) {
	return w.store.Load(ctx, name)
}

// ReadLibrary validates every record of a library file with the workbench
// tolerances.
func (w *Workbench) ReadLibrary(ctx context.Context, path string) (file.Report, error) {
	report, err := file.ReadLibrary(path, w.validator)
	if err != nil {
		return file.Report{}, err
	}
	for _, e := range report.Entries {
		kind := domain.Kind("unknown")
		if e.Material != nil {
			kind = e.Material.Kind()
		}
		w.recordValidation(kind, e.Err)
	}
	w.logger.Debug("library read", "path", path, "materials", len(report.Entries))
	return report, nil
}

// Import reads a library file and saves its valid materials. The returned
// report lists every record, including the rejected ones.
func (w *Workbench) Import(ctx context.Context, path string) (file.Report, error) {
	report, err := w.ReadLibrary(ctx, path)
	if err != nil {
		return file.Report{}, err
	}
	for _, m := range report.Valid() {
		if err := w.store.Save(ctx, m); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Export writes stored materials to a library file, YAML or JSON by
// extension. With no names every stored material is written, sorted by name.
// It returns the number of materials written.
func (w *Workbench) Export(ctx context.Context, path string, names ...string) (int, error) {
	if len(names) == 0 {
		all, err := w.store.List(ctx)
		if err != nil {
			return 0, err
		}
		names = all
	}

	materials := make([]domain.Material, 0, len(names))
	for _, name := range names {
		m, err := w.store.Load(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", name, err)
		}
		materials = append(materials, m)
	}
	if err := file.WriteLibrary(path, materials); err != nil {
		return 0, err
	}
	w.logger.Debug("library written", "path", path, "materials", len(materials))
	return len(materials), nil
}

// FindSolver returns the configured executable when it exists, otherwise
// runs discovery for the host platform.
func (w *Workbench) FindSolver(ctx context.Context) (string, bool, error) {
	if w.executable != "" {
		return w.executable, w.adapter().ValidateExecutable(w.executable), nil
	}
	return solver.FindExecutable(ctx, w.runner, w.solverOptions()...)
}

// Run executes the solver on req.Input. An empty req.Executable triggers
// FindSolver.
func (w *Workbench) Run(ctx context.Context, req solver.Request) (solver.Result, error) {
	if req.Executable == "" {
		path, ok, err := w.FindSolver(ctx)
		if err != nil {
			return solver.Result{}, err
		}
		if !ok {
			return solver.Result{}, &domain.ExecutionError{Op: "discover", Path: path, Code: domain.ErrExecutableNotFound,
				Err: errors.New("solver not found; set solver.executable or add it to PATH")}
		}
		req.Executable = path
	}
	return w.adapter().Run(ctx, req)
}

// Handler returns the HTTP API over this workbench and its store.
func (w *Workbench) Handler(opts ...httpapi.Option) http.Handler {
	return httpapi.NewHandler(w, w.store, append([]httpapi.Option{httpapi.WithLogger(w.logger)}, opts...)...)
}

func (w *Workbench) adapter() *solver.Adapter {
	return solver.NewAdapter(w.runner, w.solverOptions()...)
}

func (w *Workbench) solverOptions() []solver.Option {
	hooks := []solver.Hooks{w.runHooks, w.logHooks()}
	if w.metrics != nil {
		hooks = append(hooks, w.metrics.SolverHooks())
	}
	opts := append([]solver.Option{solver.WithLogger(w.logger)}, w.solverOpts...)
	return append(opts, solver.WithHooks(solver.MergeHooks(hooks...)))
}

func (w *Workbench) logHooks() solver.Hooks {
	return solver.Hooks{
		OnTransition: func(ctx context.Context, t solver.Transition) {
			w.logger.Debug("solver state", "from", t.From, "to", t.To, "input", t.Request.Input)
		},
	}
}

func (w *Workbench) recordValidation(kind domain.Kind, err error) {
	if w.metrics != nil {
		w.metrics.RecordValidation(kind, err)
	}
	if err != nil {
		w.logger.Debug("material rejected", "kind", kind, "err", err)
	}
}

func kindOf(record material.Fields) string {
	s, _ := record[material.FieldKind].(string)
	return s
}

var _ httpapi.Workbench = (*Workbench)(nil)
