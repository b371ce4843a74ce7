package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/solver"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lama"

// Outcome labels.
const (
	OutcomeOK = "ok"
	// OutcomeError is used when the error carries no known code.
	OutcomeError = "error"
)

// codes maps error sentinels to label values, most specific first.
var codes = []struct {
	err   error
	label string
}{
	{domain.ErrCancelled, "cancelled"},
	{domain.ErrExecutableNotFound, "executable_not_found"},
	{domain.ErrInvalidInput, "invalid_input"},
	{domain.ErrProcessLaunch, "launch_failed"},
	{domain.ErrUnknownKind, "unknown_kind"},
	{domain.ErrNoTensor, "no_tensor"},
	{domain.ErrMissingField, "missing_field"},
	{domain.ErrMalformedField, "malformed_field"},
	{domain.ErrOutOfRange, "out_of_range"},
	{domain.ErrAsymmetricMatrix, "asymmetric_matrix"},
	{domain.ErrReciprocityViolation, "reciprocity_violation"},
	{domain.ErrNonPhysical, "non_physical"},
	{domain.ErrSingularMatrix, "singular_matrix"},
}

// Outcome returns the label value describing err.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.label
		}
	}
	return OutcomeError
}

// Metrics holds the collectors.
type Metrics struct {
	Validations *prometheus.CounterVec
	Builds      *prometheus.CounterVec
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Transitions *prometheus.CounterVec
	ExitCodes   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "material",
			Name:      "validations_total",
			Help:      "Material validations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "material",
			Name:      "tensor_builds_total",
			Help:      "Stiffness tensor builds by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "runs_total",
			Help:      "Finished solver runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of completed solver runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "state_transitions_total",
			Help:      "Solver run state transitions by target state.",
		}, []string{"state"}),
		ExitCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "exit_codes_total",
			Help:      "Exit codes reported by completed solver runs.",
		}, []string{"code"}),
	}

	for _, c := range []prometheus.Collector{m.Validations, m.Builds, m.Runs, m.RunDuration, m.Transitions, m.ExitCodes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordValidation counts one validation of the given kind.
func (m *Metrics) RecordValidation(kind domain.Kind, err error) {
	m.Validations.WithLabelValues(kind.String(), Outcome(err)).Inc()
}

// RecordBuild counts one tensor build of the given kind.
func (m *Metrics) RecordBuild(kind domain.Kind, err error) {
	m.Builds.WithLabelValues(kind.String(), Outcome(err)).Inc()
}

// SolverHooks returns hooks feeding the solver collectors.
func (m *Metrics) SolverHooks() solver.Hooks {
	return solver.Hooks{
		OnTransition: func(_ context.Context, t solver.Transition) {
			m.Transitions.WithLabelValues(t.To.String()).Inc()
		},
		OnFinish: func(_ context.Context, _ solver.Request, res solver.Result, err error) {
			m.Runs.WithLabelValues(Outcome(err)).Inc()
			if err == nil {
				m.RunDuration.Observe(res.Duration.Seconds())
				m.ExitCodes.WithLabelValues(strconv.Itoa(res.ExitCode)).Inc()
			}
		},
	}
}
