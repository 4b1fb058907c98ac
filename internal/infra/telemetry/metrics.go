package telemetry

import (
	"time"

	"toolsapp/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveSearch(_ time.Duration, _ int) {}

func (n *NoopMetrics) ObserveSuggestion(_ string) {}

func (n *NoopMetrics) ObserveFavoriteChange(_ domain.FavoriteAction) {}

func (n *NoopMetrics) ObserveFavoritePersistFailure() {}

func (n *NoopMetrics) ObserveMetaSync(_ bool) {}

func (n *NoopMetrics) ObserveCatalogReload(_ domain.CatalogUpdateSource, _ domain.CatalogReloadStatus) {}

func (n *NoopMetrics) SetCatalogTools(_ int) {}

func (n *NoopMetrics) ObserveHTTPRequest(_ domain.HTTPMetric) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
