//go:build !wireinject
// +build !wireinject

// Hand-maintained injector. It builds the same graph as the provider sets in
// wire.go and must be kept in step with them.

package app

import (
	"context"
)

// Injectors from wire.go:

func InitializeApplication(ctx context.Context, cfg ServeConfig, logging LoggingConfig) (*Application, func(), error) {
	appLogging := NewLogging(logging)
	logger := NewLogger(appLogging)
	registry := NewMetricsRegistry()
	metrics := NewMetrics(registry)
	healthTracker := NewHealthTracker()
	dynamicCatalogProvider, err := NewCatalogProvider(ctx, cfg, logger, metrics, healthTracker)
	if err != nil {
		return nil, nil, err
	}
	settings := NewSettings(dynamicCatalogProvider, cfg)
	catalogState, err := NewCatalogState(ctx, dynamicCatalogProvider)
	if err != nil {
		return nil, nil, err
	}
	favoritesRepository, cleanup, err := NewFavoritesRepository(settings, logger, healthTracker)
	if err != nil {
		return nil, nil, err
	}
	toolstoreRegistry := NewToolRegistry(catalogState, favoritesRepository, settings, logger, metrics)
	stores := NewStores(toolstoreRegistry)
	suggester := NewSuggester(logger, metrics)
	builder := NewSEOBuilder(settings, logger)
	renderer, err := NewRenderer(settings, builder, logger, metrics)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	server := NewAPIServer(stores, suggester, builder, renderer, settings, logger, metrics)
	reloadManager := NewReloadManager(dynamicCatalogProvider, toolstoreRegistry, logger)
	applicationOptions := ApplicationOptions{
		Context:       ctx,
		ServeConfig:   cfg,
		Logger:        logger,
		Registry:      registry,
		Health:        healthTracker,
		Settings:      settings,
		CatalogState:  catalogState,
		APIServer:     server,
		ReloadManager: reloadManager,
	}
	application := NewApplication(applicationOptions)
	return application, func() {
		cleanup()
	}, nil
}
