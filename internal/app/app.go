package app

import (
	"context"

	"go.uber.org/zap"

	"toolsapp/internal/infra/catalog"
)

type App struct {
	logger *zap.Logger
}

// ServeConfig carries command line overrides for the daemon.
type ServeConfig struct {
	ConfigPath    string
	ListenAddress string
	// Watch forces catalog hot reload on regardless of the config file.
	Watch         bool
	Observability *ObservabilityOptions
}

type ValidateConfig struct {
	ConfigPath string
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		logger: logger,
	}
}

// Serve runs the daemon until ctx is done.
func (a *App) Serve(ctx context.Context, cfg ServeConfig) error {
	application, cleanup, err := InitializeApplication(ctx, cfg, LoggingConfig{Logger: a.logger})
	if err != nil {
		return err
	}
	defer cleanup()
	return application.Run()
}

// ValidateConfig validates the configuration at the provided path.
func (a *App) ValidateConfig(ctx context.Context, cfg ValidateConfig) error {
	logger := NewLogging(LoggingConfig{Logger: a.logger}).Logger

	loader := catalog.NewLoader(logger)
	result, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}

	logger.Info("configuration validated",
		zap.String("config", cfg.ConfigPath),
		zap.Int("tools", len(result.Catalog.Tools)),
		zap.Strings("locales", result.Catalog.Locales()),
	)
	return nil
}
