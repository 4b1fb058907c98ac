package domain

import "time"

// FavoriteAction labels a favorite mutation.
type FavoriteAction string

const (
	FavoriteActionAdd     FavoriteAction = "add"
	FavoriteActionRemove  FavoriteAction = "remove"
	FavoriteActionReorder FavoriteAction = "reorder"
	FavoriteActionMigrate FavoriteAction = "migrate"
)

// CatalogReloadStatus labels the outcome of a catalog reload attempt.
type CatalogReloadStatus string

const (
	CatalogReloadSuccess CatalogReloadStatus = "success"
	CatalogReloadFailure CatalogReloadStatus = "failure"
)

// HTTPMetric captures metrics for a served HTTP request.
type HTTPMetric struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
}

// Metrics records operational metrics for the catalog service.
type Metrics interface {
	ObserveSearch(duration time.Duration, results int)
	ObserveSuggestion(detector string)
	ObserveFavoriteChange(action FavoriteAction)
	ObserveFavoritePersistFailure()
	ObserveMetaSync(matched bool)
	ObserveCatalogReload(source CatalogUpdateSource, status CatalogReloadStatus)
	SetCatalogTools(count int)
	ObserveHTTPRequest(metric HTTPMetric)
}
