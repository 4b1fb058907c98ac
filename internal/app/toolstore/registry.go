package toolstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/memo"
	"toolsapp/internal/infra/telemetry"
)

type Options struct {
	Search        domain.SearchConfig
	MigrateLegacy bool
	// MaxProfiles bounds the number of distinct profiles held in memory.
	// Zero means domain.DefaultMaxProfiles.
	MaxProfiles int
}

// Registry owns the shared catalog and hands out stores per profile and
// locale. Stores of the same profile share one favorites list.
type Registry struct {
	catalog *memo.Cell[domain.Catalog]
	repo    domain.FavoritesRepository
	opts    Options
	logger  *zap.Logger
	metrics domain.Metrics

	mu        sync.Mutex
	favorites map[string]*Favorites
	stores    map[storeKey]*Store
}

type storeKey struct {
	profile string
	locale  string
}

func NewRegistry(catalog domain.Catalog, repo domain.FavoritesRepository, opts Options, logger *zap.Logger, metrics domain.Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	if opts.MaxProfiles <= 0 {
		opts.MaxProfiles = domain.DefaultMaxProfiles
	}
	metrics.SetCatalogTools(len(catalog.Tools))
	return &Registry{
		catalog:   memo.NewCell(catalog),
		repo:      repo,
		opts:      opts,
		logger:    logger.Named("toolstore"),
		metrics:   metrics,
		favorites: make(map[string]*Favorites),
		stores:    make(map[storeKey]*Store),
	}
}

// Catalog returns the active catalog.
func (r *Registry) Catalog() domain.Catalog {
	return r.catalog.Get()
}

// ApplyCatalog swaps the catalog for every store.
func (r *Registry) ApplyCatalog(catalog domain.Catalog) {
	r.catalog.Set(catalog)
	r.metrics.SetCatalogTools(len(catalog.Tools))
}

// ToolByPath looks a tool up in the unlocalized catalog.
func (r *Registry) ToolByPath(path string) (domain.Tool, bool) {
	return r.catalog.Get().ToolByPath(path)
}

// Locales returns the locales with a message bundle, default locale first.
func (r *Registry) Locales() []string {
	catalog := r.catalog.Get()
	locales := catalog.Locales()
	sort.Strings(locales)
	def := catalog.DefaultLocale
	if def == "" {
		return locales
	}
	out := []string{def}
	for _, l := range locales {
		if l != def {
			out = append(out, l)
		}
	}
	return out
}

// Store returns the store for profile and locale, loading the profile's
// favorites on first use. An empty profile selects the default one; the
// locale is matched against the loaded bundles and falls back to the default
// locale, so unknown locales never create stores of their own.
func (r *Registry) Store(ctx context.Context, profile, locale string) (*Store, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = domain.DefaultProfileName
	}
	if err := domain.ValidateProfileName(profile); err != nil {
		return nil, err
	}
	catalog := r.catalog.Get()
	locale = matchLocale(locale, r.Locales(), catalog.DefaultLocale)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := storeKey{profile: profile, locale: locale}
	if store, ok := r.stores[key]; ok {
		return store, nil
	}
	if _, ok := r.favorites[profile]; !ok && len(r.favorites) >= r.opts.MaxProfiles {
		r.logger.Warn("profile limit reached",
			telemetry.ProfileField(profile),
			zap.Int("max_profiles", r.opts.MaxProfiles),
		)
		return nil, domain.ErrProfileLimit
	}
	favorites := r.favoritesLocked(ctx, profile)
	store := newStore(r.catalog, locale, favorites, r.opts.Search, r.metrics)
	r.stores[key] = store
	return store, nil
}

// Size reports how many profiles and stores are cached.
func (r *Registry) Size() (profiles, stores int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.favorites), len(r.stores)
}

func (r *Registry) favoritesLocked(ctx context.Context, profile string) *Favorites {
	if fav, ok := r.favorites[profile]; ok {
		return fav
	}

	var entries []string
	if r.repo != nil {
		loaded, err := r.repo.LoadFavorites(ctx, profile)
		if err != nil {
			r.logger.Warn("favorites load failed; starting empty",
				telemetry.EventField(telemetry.EventFavoritesLoad),
				telemetry.ProfileField(profile),
				zap.Error(err),
			)
		} else {
			entries = loaded
		}
	}

	fav := newFavorites(profile, entries, r.repo, r.logger, r.metrics)
	if r.opts.MigrateLegacy && len(entries) > 0 {
		if migrated, changed := migrateLegacyEntries(entries, r.catalog.Get()); changed {
			r.logger.Info("favorites migrated to paths",
				telemetry.EventField(telemetry.EventFavoritesMigrate),
				telemetry.ProfileField(profile),
				zap.Int("entries", len(migrated)),
			)
			fav.mutate(domain.FavoriteActionMigrate, func([]string) ([]string, bool) {
				return migrated, true
			})
		}
	}
	r.favorites[profile] = fav
	return fav
}
