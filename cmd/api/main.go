package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polysum/internal/app"
	"polysum/internal/config"
	"polysum/internal/infra/worker"
	"polysum/internal/observability/logging"
	"polysum/internal/observability/tracing"

	hhttp "polysum/internal/handler/http"
	"polysum/internal/handler/http/requestid"
	hsummarize "polysum/internal/handler/http/summarize"

	"github.com/prometheus/client_golang/prometheus"
)

// deps holds the constructors run depends on.
type deps struct {
	initTracing func(sampleRatio float64) func(context.Context) error
	build       func(ctx context.Context, cfg *config.AppConfig) (*app.App, error)
	serve       func(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler, purger *worker.PurgeScheduler) error
	registerer  prometheus.Registerer
}

var defaultDeps = deps{
	initTracing: func(sampleRatio float64) func(context.Context) error {
		return tracing.Init(sampleRatio)
	},
	build: app.Build,
	serve: runServer,
}

func main() {
	logger := initLogger()
	if err := run(logger, defaultDeps); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// run builds the engine and serves until shutdown. Resources acquired here
// are released on every return path.
func run(logger *slog.Logger, d deps) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	shutdownTracing := d.initTracing(cfg.TraceSampleRatio)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	engine, err := d.build(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("build summarization engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	purger, err := worker.NewPurgeScheduler(engine.Purger, cfg.CachePurgeSchedule, worker.NewPurgeMetrics(d.registerer), logger)
	if err != nil {
		return fmt.Errorf("schedule cache purge: %w", err)
	}

	handler := setupServer(logger, cfg, engine)
	return d.serve(logger, cfg, handler, purger)
}

// initLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupServer registers all routes and wraps them with the middleware chain.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, engine *app.App) http.Handler {
	var limit func(http.Handler) http.Handler
	if cfg.RateLimitEnabled() {
		limit = hhttp.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).Middleware
		logger.Info("rate limiting initialized",
			slog.Int("per_minute", cfg.RateLimitPerMinute),
			slog.Int("burst", cfg.RateLimitBurst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	backends := make(map[string]hhttp.CircuitReporter, len(engine.Backends))
	for lang, gen := range engine.Backends {
		backends[string(lang)] = gen
	}

	mux := http.NewServeMux()
	hsummarize.Register(mux, engine.Service, engine.Fetcher, limit)

	mux.Handle("/health", &hhttp.HealthHandler{
		Version:    cfg.Version,
		Translator: engine.Translator,
		Backends:   backends,
		Fetcher:    engine.Fetcher,
		DB:         engine.DB,
	})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: engine.DB})
	mux.Handle("/live", hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, cfg, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Body Limit → Timeout → Metrics
func applyMiddleware(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Timeout(cfg.RequestTimeout)(chain)
	chain = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and the purge job, then blocks until
// SIGINT or SIGTERM and shuts both down.
func runServer(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler, purger *worker.PurgeScheduler) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	purger.Start()

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var serveErr error
	select {
	case <-quit:
		logger.Info("shutting down server...")
	case serveErr = <-errCh:
		logger.Error("server failed", slog.Any("error", serveErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := purger.Stop(shutdownCtx); err != nil {
		logger.Warn("cache purge did not stop in time", slog.Any("error", err))
	}

	// In-flight summaries see cancellation through BaseContext once the
	// grace period runs out.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
		cancel()
	}
	logger.Info("server stopped")
	return serveErr
}
