package app

import (
	"context"

	"go.uber.org/zap"

	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
	infraCatalog "toolsapp/internal/infra/catalog"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
	"toolsapp/internal/infra/telemetry"
)

// OfflineConfig configures an in-process catalog for the CLIs.
type OfflineConfig struct {
	ConfigPath string
	// FavoritesPath overrides the configured favorites store when set.
	FavoritesPath string
}

// Offline is the catalog stack without any listener: what toolsctl and the
// MCP stdio server run against.
type Offline struct {
	Settings  domain.Settings
	Registry  *toolstore.Registry
	Suggester *suggest.Suggester
	Builder   *seo.Builder

	close func()
}

// OpenOffline loads the config and opens the favorites store.
func OpenOffline(ctx context.Context, cfg OfflineConfig, logger *zap.Logger) (*Offline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	result, err := infraCatalog.NewLoader(logger).Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	settings := result.Settings
	if cfg.FavoritesPath != "" {
		settings.Favorites.Path = cfg.FavoritesPath
	}

	metrics := telemetry.NewNoopMetrics()
	repo, cleanup, err := NewFavoritesRepository(settings, logger, nil)
	if err != nil {
		return nil, err
	}
	state := &domain.CatalogState{Catalog: result.Catalog}
	return &Offline{
		Settings:  settings,
		Registry:  NewToolRegistry(state, repo, settings, logger, metrics),
		Suggester: NewSuggester(logger, metrics),
		Builder:   NewSEOBuilder(settings, logger),
		close:     cleanup,
	}, nil
}

// Store returns the tool store for profile and locale.
func (o *Offline) Store(ctx context.Context, profile, locale string) (*toolstore.Store, error) {
	return o.Registry.Store(ctx, profile, locale)
}

// Close releases the favorites store.
func (o *Offline) Close() {
	if o.close != nil {
		o.close()
	}
}
