package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/lama"
	httpapi "github.com/aretw0/lama/pkg/adapters/http"
	"github.com/aretw0/lama/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewServer builds the API server with its own metrics registry. The
// returned func releases the store.
func NewServer(ctx context.Context, app *App, addr string) (*http.Server, func() error, error) {
	store, closeStore, err := newStore(ctx, app.Config)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	wb := app.Workbench(lama.WithStore(store), lama.WithMetrics(metrics))
	handler := wb.Handler(httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if addr == "" {
		addr = app.Config.Server.Addr
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, closeStore, nil
}

// Serve runs the API until SIGINT/SIGTERM or ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, app *App, addr string) error {
	sc := NewSignalContext(ctx)
	defer sc.Stop()

	srv, closeStore, err := NewServer(sc, app, addr)
	if err != nil {
		return err
	}
	defer closeStore()

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("starting server", "addr", srv.Addr, "store", app.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-sc.Done():
		app.Logger.Info("shutting down", "signal", sc.Signal())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		return srv.Close()
	}
	app.Logger.Info("server stopped")
	return nil
}
