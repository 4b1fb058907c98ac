package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolsapp/internal/domain"
)

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveSearch(2*time.Millisecond, 3)
	m.ObserveSuggestion("jwt")
	m.ObserveSuggestion("jwt")
	m.ObserveFavoriteChange(domain.FavoriteActionAdd)
	m.ObserveFavoritePersistFailure()
	m.ObserveMetaSync(true)
	m.ObserveCatalogReload(domain.CatalogUpdateSourceWatch, domain.CatalogReloadSuccess)
	m.SetCatalogTools(12)
	m.ObserveHTTPRequest(domain.HTTPMetric{Route: "/api/tools", Method: "GET", Status: 200, Duration: time.Millisecond})

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.GetName())
	}

	assert.Contains(t, names, "toolsapp_search_duration_seconds")
	assert.Contains(t, names, "toolsapp_search_results")
	assert.Contains(t, names, "toolsapp_suggestions_total")
	assert.Contains(t, names, "toolsapp_favorite_changes_total")
	assert.Contains(t, names, "toolsapp_favorite_persist_failures_total")
	assert.Contains(t, names, "toolsapp_meta_sync_total")
	assert.Contains(t, names, "toolsapp_catalog_reloads_total")
	assert.Contains(t, names, "toolsapp_catalog_tools")
	assert.Contains(t, names, "toolsapp_http_request_duration_seconds")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.suggestions.WithLabelValues("jwt")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.catalogTools))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.metaSyncs.WithLabelValues("true")))
}

func TestNewRegistryIncludesRuntimeCollectors(t *testing.T) {
	registry := NewRegistry()
	metrics, err := registry.Gather()
	require.NoError(t, err)

	found := false
	for _, m := range metrics {
		if m.GetName() == "go_goroutines" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNoopMetricsSatisfiesInterface(t *testing.T) {
	var m domain.Metrics = NewNoopMetrics()
	m.ObserveSearch(time.Second, 1)
	m.ObserveHTTPRequest(domain.HTTPMetric{})
}
