package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"toolsapp/internal/domain"
)

type PrometheusMetrics struct {
	searchDuration          prometheus.Histogram
	searchResults           prometheus.Histogram
	suggestions             *prometheus.CounterVec
	favoriteChanges         *prometheus.CounterVec
	favoritePersistFailures prometheus.Counter
	metaSyncs               *prometheus.CounterVec
	catalogReloads          *prometheus.CounterVec
	catalogTools            prometheus.Gauge
	httpDuration            *prometheus.HistogramVec
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		searchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolsapp_search_duration_seconds",
				Help:    "Duration of catalog searches in seconds",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
			},
		),
		searchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolsapp_search_results",
				Help:    "Number of results returned by catalog searches",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		suggestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolsapp_suggestions_total",
				Help: "Total number of tool suggestions returned, by detector",
			},
			[]string{"detector"},
		),
		favoriteChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolsapp_favorite_changes_total",
				Help: "Total number of favorite list mutations",
			},
			[]string{"action"},
		),
		favoritePersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "toolsapp_favorite_persist_failures_total",
				Help: "Total number of failed favorite list writes",
			},
		),
		metaSyncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolsapp_meta_sync_total",
				Help: "Total number of page metadata applications",
			},
			[]string{"matched"},
		),
		catalogReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolsapp_catalog_reloads_total",
				Help: "Total number of catalog reload attempts",
			},
			[]string{"source", "status"},
		),
		catalogTools: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "toolsapp_catalog_tools",
				Help: "Number of tools in the active catalog",
			},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolsapp_http_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"route", "method", "status"},
		),
	}
}

func (p *PrometheusMetrics) ObserveSearch(duration time.Duration, results int) {
	p.searchDuration.Observe(duration.Seconds())
	p.searchResults.Observe(float64(results))
}

func (p *PrometheusMetrics) ObserveSuggestion(detector string) {
	p.suggestions.WithLabelValues(detector).Inc()
}

func (p *PrometheusMetrics) ObserveFavoriteChange(action domain.FavoriteAction) {
	p.favoriteChanges.WithLabelValues(string(action)).Inc()
}

func (p *PrometheusMetrics) ObserveFavoritePersistFailure() {
	p.favoritePersistFailures.Inc()
}

func (p *PrometheusMetrics) ObserveMetaSync(matched bool) {
	p.metaSyncs.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

func (p *PrometheusMetrics) ObserveCatalogReload(source domain.CatalogUpdateSource, status domain.CatalogReloadStatus) {
	p.catalogReloads.WithLabelValues(string(source), string(status)).Inc()
}

func (p *PrometheusMetrics) SetCatalogTools(count int) {
	p.catalogTools.Set(float64(count))
}

func (p *PrometheusMetrics) ObserveHTTPRequest(metric domain.HTTPMetric) {
	p.httpDuration.WithLabelValues(metric.Route, metric.Method, strconv.Itoa(metric.Status)).Observe(metric.Duration.Seconds())
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
