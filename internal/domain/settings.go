package domain

// SiteConfig holds the site-wide SEO defaults.
type SiteConfig struct {
	Name               string
	BaseURL            string
	DefaultTitle       string
	DefaultDescription string
	Keywords           []string
	PrivacyPolicyURL   string
}

type FavoritesConfig struct {
	Path          string
	Key           string
	MigrateLegacy bool
}

type SearchConfig struct {
	// Threshold is the Jaro-Winkler similarity required for typo matches.
	// A negative value disables the fallback.
	Threshold float64
	Limit     int
}

type HTTPConfig struct {
	ListenAddress string
	IndexTemplate string
	StaticDir     string
}

type ObservabilityConfig struct {
	ListenAddress  string
	MetricsEnabled bool
	HealthzEnabled bool
}

type WatchConfig struct {
	Enabled    bool
	DebounceMs int
}

// Settings is the non-catalog part of the configuration file. It is read once
// at startup; only the catalog is hot reloaded.
type Settings struct {
	Site          SiteConfig
	Favorites     FavoritesConfig
	Search        SearchConfig
	HTTP          HTTPConfig
	Observability ObservabilityConfig
	Watch         WatchConfig
	LocalesDir    string
}

// DefaultSettings returns settings populated with built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Site: SiteConfig{
			Name:               DefaultSiteName,
			BaseURL:            DefaultSiteBaseURL,
			DefaultTitle:       DefaultSiteTitle,
			DefaultDescription: DefaultSiteDescription,
			Keywords:           append([]string(nil), DefaultSiteKeywords...),
			PrivacyPolicyURL:   DefaultSiteBaseURL + "/privacy",
		},
		Favorites: FavoritesConfig{
			Key:           DefaultFavoritesKey,
			MigrateLegacy: DefaultFavoritesMigrateLegacy,
		},
		Search: SearchConfig{
			Threshold: DefaultSearchThreshold,
			Limit:     DefaultSearchLimit,
		},
		HTTP: HTTPConfig{
			ListenAddress: DefaultHTTPListenAddress,
		},
		Observability: ObservabilityConfig{
			ListenAddress:  DefaultObservabilityListenAddress,
			MetricsEnabled: true,
			HealthzEnabled: true,
		},
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMs: DefaultCatalogReloadDebounceMs,
		},
	}
}
