package toolstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/memo"
	"toolsapp/internal/infra/telemetry"
)

const persistTimeout = 5 * time.Second

// Favorites is the favorite list of one profile. Every mutation is written
// through to the repository; a failed write is logged and counted but the
// in-memory list keeps the change.
type Favorites struct {
	profile string
	cell    *memo.Cell[[]string]
	repo    domain.FavoritesRepository
	logger  *zap.Logger
	metrics domain.Metrics

	mu sync.Mutex
}

func newFavorites(profile string, entries []string, repo domain.FavoritesRepository, logger *zap.Logger, metrics domain.Metrics) *Favorites {
	if entries == nil {
		entries = []string{}
	}
	return &Favorites{
		profile: profile,
		cell:    memo.NewCell(entries),
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

func (f *Favorites) Profile() string {
	return f.profile
}

// Entries returns a copy of the stored entries in order.
func (f *Favorites) Entries() []string {
	return slices.Clone(f.cell.Get())
}

func (f *Favorites) Version() uint64 {
	return f.cell.Version()
}

func (f *Favorites) contains(tool domain.Tool) bool {
	for _, entry := range f.cell.Get() {
		if entry == tool.Path || (tool.Name != "" && entry == tool.Name) {
			return true
		}
	}
	return false
}

func (f *Favorites) add(path string) bool {
	if path == "" {
		return false
	}
	return f.mutate(domain.FavoriteActionAdd, func(entries []string) ([]string, bool) {
		if slices.Contains(entries, path) {
			return entries, false
		}
		return append(slices.Clone(entries), path), true
	})
}

func (f *Favorites) remove(tool domain.Tool) bool {
	return f.mutate(domain.FavoriteActionRemove, func(entries []string) ([]string, bool) {
		out := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry == tool.Path || (tool.Name != "" && entry == tool.Name) {
				continue
			}
			out = append(out, entry)
		}
		return out, len(out) != len(entries)
	})
}

func (f *Favorites) replace(paths []string) {
	next := make([]string, 0, len(paths))
	for _, path := range paths {
		if path != "" {
			next = append(next, path)
		}
	}
	f.mutate(domain.FavoriteActionReorder, func([]string) ([]string, bool) {
		return next, true
	})
}

func (f *Favorites) mutate(action domain.FavoriteAction, fn func([]string) ([]string, bool)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, changed := fn(f.cell.Get())
	if !changed {
		return false
	}
	f.cell.Set(next)
	if f.metrics != nil {
		f.metrics.ObserveFavoriteChange(action)
	}
	f.persistLocked(next)
	return true
}

func (f *Favorites) persistLocked(entries []string) {
	if f.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := f.repo.SaveFavorites(ctx, f.profile, slices.Clone(entries)); err != nil {
		f.logger.Warn("favorites persist failed",
			telemetry.EventField(telemetry.EventFavoritesPersist),
			telemetry.ProfileField(f.profile),
			zap.Error(err),
		)
		if f.metrics != nil {
			f.metrics.ObserveFavoritePersistFailure()
		}
	}
}
