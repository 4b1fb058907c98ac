package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/httpapi"
	"toolsapp/internal/infra/telemetry"
)

// Application wires the daemon runtime and dependencies.
type Application struct {
	ctx           context.Context
	configPath    string
	observability *ObservabilityOptions

	logger   *zap.Logger
	registry *prometheus.Registry
	health   *telemetry.HealthTracker
	settings domain.Settings
	state    *domain.CatalogState
	api      *httpapi.Server
	reload   *ReloadManager
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Context       context.Context
	ServeConfig   ServeConfig
	Logger        *zap.Logger
	Registry      *prometheus.Registry
	Health        *telemetry.HealthTracker
	Settings      domain.Settings
	CatalogState  *domain.CatalogState
	APIServer     *httpapi.Server
	ReloadManager *ReloadManager
}

// NewApplication constructs the daemon runtime.
func NewApplication(opts ApplicationOptions) *Application {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		ctx:           ctx,
		configPath:    opts.ServeConfig.ConfigPath,
		observability: opts.ServeConfig.Observability,
		logger:        logger,
		registry:      opts.Registry,
		health:        opts.Health,
		settings:      opts.Settings,
		state:         opts.CatalogState,
		api:           opts.APIServer,
		reload:        opts.ReloadManager,
	}
}

// Run serves the API, the observability endpoints and the catalog watcher,
// and blocks until the context ends or one of them fails.
func (a *Application) Run() error {
	var tools int
	if a.state != nil {
		tools = len(a.state.Catalog.Tools)
	}
	a.logger.Info("configuration loaded",
		zap.String("config", a.configPath),
		zap.Int("tools", tools),
		zap.Bool("watch", a.settings.Watch.Enabled),
	)

	group, ctx := errgroup.WithContext(a.ctx)

	group.Go(func() error {
		return a.api.ListenAndServe(ctx, a.settings.HTTP.ListenAddress)
	})

	metricsEnabled, healthzEnabled := resolveObservability(a.settings.Observability, a.observability)
	if metricsEnabled || healthzEnabled {
		group.Go(func() error {
			return telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
				Addr:          a.settings.Observability.ListenAddress,
				EnableMetrics: metricsEnabled,
				EnableHealthz: healthzEnabled,
				Health:        a.health,
				Registry:      a.registry,
			}, a.logger)
		})
	}

	if a.settings.Watch.Enabled && a.reload != nil {
		group.Go(func() error {
			return a.reload.Run(ctx)
		})
	}

	err := group.Wait()
	a.logger.Info("daemon stopped")
	return err
}
