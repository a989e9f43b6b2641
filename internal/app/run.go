package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/modulegrid/internal/builder"
	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/manifest"
)

// ErrNoManifest is returned by Run when no manifest path is configured.
var ErrNoManifest = errors.New("no manifest path configured")

// Build loads the configured manifest and builds its modules against the
// app's registry.
func (app *App) Build(ctx context.Context) (*builder.Pipeline, error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	if app.config.ManifestPath == "" {
		return nil, ErrNoManifest
	}

	app.logger.Debug("Loading manifest...", "path", app.config.ManifestPath)
	m, err := manifest.Load(ctx, app.config.ManifestPath)
	if err != nil {
		return nil, err
	}

	pipeline, err := builder.Build(ctx, app.registry, m)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return pipeline, nil
}

// Run executes the main application logic: it builds the manifest and prints
// the resulting modules. When a health check port is configured it keeps
// serving until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.logger.Debug("App.Run method started.")

	if _, err := app.healthCheckServer(); err != nil {
		return err
	}

	pipeline, err := app.Build(ctx)
	if err != nil {
		return err
	}

	if len(pipeline.Modules) == 0 {
		app.logger.Warn("Manifest declares no modules.")
	}
	for _, m := range pipeline.Modules {
		fmt.Fprintf(app.outW, "%s\t%s\n", m.Name(), m.ID())
	}
	app.logger.Info("🏁 Pipeline ready.", "modules", len(pipeline.Modules))

	if app.httpServer != nil {
		app.logger.Info("Serving until interrupted.")
		<-ctx.Done()
	}

	app.logger.Debug("App.Run method finished.")
	return nil
}
