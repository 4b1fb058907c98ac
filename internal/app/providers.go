package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"toolsapp/internal/app/catalog"
	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
	"toolsapp/internal/infra/favorites"
	"toolsapp/internal/infra/httpapi"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
	"toolsapp/internal/infra/telemetry"
)

const favoritesHealthComponent = "favorites"

func NewMetricsRegistry() *prometheus.Registry {
	return telemetry.NewRegistry()
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewCatalogProvider(ctx context.Context, cfg ServeConfig, logger *zap.Logger, metrics domain.Metrics, health *telemetry.HealthTracker) (*catalog.DynamicCatalogProvider, error) {
	return catalog.NewDynamicCatalogProvider(ctx, cfg.ConfigPath, catalog.ProviderOptions{
		Logger:  logger,
		Metrics: metrics,
		Health:  health,
	})
}

// NewSettings returns the settings read with the catalog, with command line
// overrides applied.
func NewSettings(provider *catalog.DynamicCatalogProvider, cfg ServeConfig) domain.Settings {
	settings := provider.Settings()
	if cfg.ListenAddress != "" {
		settings.HTTP.ListenAddress = cfg.ListenAddress
	}
	if cfg.Watch {
		settings.Watch.Enabled = true
	}
	return settings
}

func NewCatalogState(ctx context.Context, provider domain.CatalogProvider) (*domain.CatalogState, error) {
	return catalog.NewCatalogState(ctx, provider)
}

// NewFavoritesRepository opens the bbolt store at the configured path, or an
// in-memory store when no path is set.
func NewFavoritesRepository(settings domain.Settings, logger *zap.Logger, health *telemetry.HealthTracker) (domain.FavoritesRepository, func(), error) {
	if settings.Favorites.Path == "" {
		logger.Warn("favorites path not configured; favorites are kept in memory")
		health.MarkHealthy(favoritesHealthComponent)
		return favorites.NewMemoryStore(), func() {}, nil
	}
	store, err := favorites.OpenBoltStore(settings.Favorites.Path, settings.Favorites.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("open favorites store: %w", err)
	}
	health.MarkHealthy(favoritesHealthComponent)
	logger.Info("favorites store opened", telemetry.PathField(store.Path()))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("favorites store close failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func NewToolRegistry(state *domain.CatalogState, repo domain.FavoritesRepository, settings domain.Settings, logger *zap.Logger, metrics domain.Metrics) *toolstore.Registry {
	return toolstore.NewRegistry(state.Catalog, repo, toolstore.Options{
		Search:        settings.Search,
		MigrateLegacy: settings.Favorites.MigrateLegacy,
	}, logger, metrics)
}

func NewSuggester(logger *zap.Logger, metrics domain.Metrics) *suggest.Suggester {
	return suggest.New(suggest.WithLogger(logger), suggest.WithMetrics(metrics))
}

func NewSEOBuilder(settings domain.Settings, logger *zap.Logger) *seo.Builder {
	return seo.NewBuilder(settings.Site, logger)
}

func NewRenderer(settings domain.Settings, builder *seo.Builder, logger *zap.Logger, metrics domain.Metrics) (*seo.Renderer, error) {
	return seo.NewRenderer(settings.HTTP.IndexTemplate, builder, nil, logger, metrics)
}

func NewAPIServer(
	stores httpapi.Stores,
	suggester *suggest.Suggester,
	builder *seo.Builder,
	renderer *seo.Renderer,
	settings domain.Settings,
	logger *zap.Logger,
	metrics domain.Metrics,
) *httpapi.Server {
	return httpapi.NewServer(stores, suggester, builder, renderer, httpapi.Options{
		StaticDir: settings.HTTP.StaticDir,
	}, logger, metrics)
}
