package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	metrics    *prometheus.Registry
	tracing    *tracing
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, metrics and
// registry. With no providers the compiled-in core modules are registered.
func NewApp(outW io.Writer, cfg *Config, providers ...registry.Provider) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	tr, err := newTracing(cfg.Tracing, outW)
	if err != nil {
		// Tracing was asked for explicitly, so failing to set it up is fatal.
		panic(fmt.Errorf("failed to configure tracing: %w", err))
	}

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(collectors.NewGoCollector())

	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithMetricsRegisterer(metrics),
		registry.WithTracerProvider(tr.provider),
	)
	if len(providers) == 0 {
		providers = coreModules(outW)
	}
	if err := reg.RegisterProviders(providers...); err != nil {
		// A provider that cannot register is a programmer error, so we panic.
		panic(fmt.Errorf("failed to register modules: %w", err))
	}
	logger.Debug("All Go modules registered.", "count", len(providers), "release", reg.ReleaseVersion().String())

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  metrics,
		tracing:  tr,
	}
}

// Registry returns the application's registry.
func (app *App) Registry() *registry.Registry {
	return app.registry
}

// Close stops the health check server and flushes pending spans.
func (app *App) Close() error {
	return errors.Join(
		app.closeHealthCheckServer(),
		app.tracing.Shutdown(context.WithoutCancel(app.ctx)),
	)
}
