package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/gridplan"
	httpAdapter "github.com/aretw0/gridplan/internal/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Options
	Algorithm string
	Addr      string
}

// Serve solves the grid once and serves the results, the comparison and
// Prometheus metrics over HTTP until ctx is cancelled or a signal arrives.
func Serve(ctx context.Context, opts ServeOptions) error {
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}

	err = serve(sigCtx, opts, ln)
	if sig := sigCtx.Signal(); sig != nil {
		printSystemMessage(opts.out(), "Server stopped (%v).", sig)
	}
	return err
}

func serve(ctx context.Context, opts ServeOptions, ln net.Listener) error {
	out := opts.out()
	defer ln.Close()

	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	algorithms, err := parseAlgorithms(opts.Algorithm)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	planner, err := createPlanner(cfg, opts.Options, logger, gridplan.WithMetrics(reg))
	if err != nil {
		return err
	}

	results, err := planner.Solve(ctx, algorithms...)
	if err != nil {
		return err
	}
	cmp, err := planner.Compare(results...)
	if err != nil {
		return err
	}

	handler := httpAdapter.NewHandler(httpAdapter.Snapshot{
		Config:     cfg,
		Grid:       planner.Model(),
		Results:    results,
		Comparison: &cmp,
	},
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVersion(gridplan.Version),
	)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Serving %dx%d grid on http://%s", cfg.Width, cfg.Height, ln.Addr())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	}
}
