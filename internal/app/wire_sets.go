//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"toolsapp/internal/app/catalog"
	"toolsapp/internal/domain"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
)

var CatalogSet = wire.NewSet(
	NewCatalogProvider,
	wire.Bind(new(domain.CatalogProvider), new(*catalog.DynamicCatalogProvider)),
	NewSettings,
	NewCatalogState,
)

var ServiceSet = wire.NewSet(
	NewFavoritesRepository,
	NewToolRegistry,
	NewStores,
	NewSuggester,
	NewSEOBuilder,
	NewRenderer,
	NewAPIServer,
	NewReloadManager,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	CatalogSet,
	ServiceSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
