/*
Package observability exports Prometheus metrics for material validation and
solver runs.

Metrics are registered on a caller-supplied prometheus.Registerer, so tests and
embedders can use an isolated registry. The solver side is wired through
solver.Hooks:

	m, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	adapter := solver.NewAdapter(runner, solver.WithHooks(m.SolverHooks()))
*/
package observability
