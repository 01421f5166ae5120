package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/genhub/internal/cluster"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/features"
	"github.com/vk/genhub/internal/handlers"
	"github.com/vk/genhub/internal/hcl_adapter"
	"github.com/vk/genhub/internal/notify"
	"github.com/vk/genhub/internal/registry"
	"github.com/vk/genhub/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	logCloser io.Closer
	config    *Config
	registry  *registry.Registry
	handlers  *handlers.Handlers
	tracker   *notify.Tracker
	extractor coordinator.Extractor
	runner    cluster.Runner
}

// Option customizes an App; tests use it to replace external tools.
type Option func(*App)

// WithModules replaces the compiled-in fetcher modules.
func WithModules(modules ...handlers.Module) Option {
	return func(a *App) { a.handlers = handlers.New(modules...) }
}

// WithExtractor replaces the feature extractor.
func WithExtractor(x coordinator.Extractor) Option {
	return func(a *App) { a.extractor = x }
}

// WithRunner replaces the clustering runner.
func WithRunner(r cluster.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and loads the genome registry; a registry problem is a
// configuration error.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger, closer := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg, err := registry.Load(ctx, cfg.CfgDirs, yaml_adapter.NewLoader(), hcl_adapter.NewLoader(cfg.Workdir))
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("failed to load genome registry: %w", err)
	}

	a := &App{
		outW:      outW,
		logger:    logger,
		logCloser: closer,
		config:    cfg,
		registry:  reg,
		tracker:   notify.NewTracker(),
		extractor: features.New(cfg.LocusPocus),
		runner:    &cluster.CDHit{Binary: cfg.CDHit},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.handlers == nil {
		a.handlers = handlers.New(coreModules()...)
	}
	logger.Debug("Fetchers registered.", "schemes", a.handlers.Schemes())
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Tracker returns the live status tracker.
func (a *App) Tracker() *notify.Tracker {
	return a.tracker
}

// Close releases the log file, if any.
func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}
