package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

// Loader reads the toolsapp configuration file: settings, tool list and the
// locale bundles it points at.
type Loader struct {
	logger *zap.Logger
}

// Result is a fully loaded configuration file.
type Result struct {
	Settings domain.Settings
	Catalog  domain.Catalog
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultSettings()
	v.SetDefault("site.name", def.Site.Name)
	v.SetDefault("site.baseURL", def.Site.BaseURL)
	v.SetDefault("site.defaultTitle", def.Site.DefaultTitle)
	v.SetDefault("site.defaultDescription", def.Site.DefaultDescription)
	v.SetDefault("site.keywords", def.Site.Keywords)
	v.SetDefault("locales.default", domain.DefaultLocale)
	v.SetDefault("favorites.key", def.Favorites.Key)
	v.SetDefault("favorites.migrateLegacy", def.Favorites.MigrateLegacy)
	v.SetDefault("search.threshold", def.Search.Threshold)
	v.SetDefault("search.limit", def.Search.Limit)
	v.SetDefault("http.listenAddress", def.HTTP.ListenAddress)
	v.SetDefault("observability.listenAddress", def.Observability.ListenAddress)
	v.SetDefault("observability.metricsEnabled", def.Observability.MetricsEnabled)
	v.SetDefault("observability.healthzEnabled", def.Observability.HealthzEnabled)
	v.SetDefault("catalog.watch.enabled", def.Watch.Enabled)
	v.SetDefault("catalog.watch.debounceMs", def.Watch.DebounceMs)
}

type rawConfig struct {
	Site          rawSiteConfig          `mapstructure:"site"`
	Tools         []rawTool              `mapstructure:"tools"`
	Locales       rawLocalesConfig       `mapstructure:"locales"`
	Favorites     rawFavoritesConfig     `mapstructure:"favorites"`
	Search        rawSearchConfig        `mapstructure:"search"`
	HTTP          rawHTTPConfig          `mapstructure:"http"`
	Observability rawObservabilityConfig `mapstructure:"observability"`
	Catalog       rawCatalogConfig       `mapstructure:"catalog"`
}

type rawSiteConfig struct {
	Name               string   `mapstructure:"name"`
	BaseURL            string   `mapstructure:"baseURL"`
	DefaultTitle       string   `mapstructure:"defaultTitle"`
	DefaultDescription string   `mapstructure:"defaultDescription"`
	Keywords           []string `mapstructure:"keywords"`
	PrivacyPolicyURL   string   `mapstructure:"privacyPolicyURL"`
}

type rawTool struct {
	Name        string   `mapstructure:"name"`
	Path        string   `mapstructure:"path"`
	Description string   `mapstructure:"description"`
	Keywords    []string `mapstructure:"keywords"`
	Category    string   `mapstructure:"category"`
	IsNew       bool     `mapstructure:"isNew"`
}

type rawLocalesConfig struct {
	Dir     string `mapstructure:"dir"`
	Default string `mapstructure:"default"`
}

type rawFavoritesConfig struct {
	Path          string `mapstructure:"path"`
	Key           string `mapstructure:"key"`
	MigrateLegacy bool   `mapstructure:"migrateLegacy"`
}

type rawSearchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Limit     int     `mapstructure:"limit"`
}

type rawHTTPConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
	IndexTemplate string `mapstructure:"indexTemplate"`
	StaticDir     string `mapstructure:"staticDir"`
}

type rawObservabilityConfig struct {
	ListenAddress  string `mapstructure:"listenAddress"`
	MetricsEnabled bool   `mapstructure:"metricsEnabled"`
	HealthzEnabled bool   `mapstructure:"healthzEnabled"`
}

type rawCatalogConfig struct {
	Watch rawWatchConfig `mapstructure:"watch"`
}

type rawWatchConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DebounceMs int  `mapstructure:"debounceMs"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("catalog")}
}

// Load reads settings, tools and locale bundles from the config file at path.
// Relative paths inside the file are resolved against its directory.
func (l *Loader) Load(ctx context.Context, path string) (Result, error) {
	if path == "" {
		return Result{}, errors.New("config path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read config: %w", err)
	}

	expanded, missing, err := expandConfigEnv(data)
	if err != nil {
		return Result{}, err
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in config", zap.String("path", path), zap.Strings("missing", missing))
	}

	v := newConfigViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return Result{}, fmt.Errorf("parse config: %w", err)
	}

	var cfg rawConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return Result{}, fmt.Errorf("decode config: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	baseDir := filepath.Dir(path)
	settings, validationErrors := normalizeSettings(cfg, baseDir)

	tools := make([]domain.Tool, 0, len(cfg.Tools))
	pathSeen := make(map[string]struct{}, len(cfg.Tools))
	for i, raw := range cfg.Tools {
		tool := normalizeTool(raw)
		if errs := validateTool(tool, i); len(errs) > 0 {
			validationErrors = append(validationErrors, errs...)
			continue
		}
		if _, exists := pathSeen[tool.Path]; exists {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: duplicate path %q", i, tool.Path))
			continue
		}
		pathSeen[tool.Path] = struct{}{}
		tools = append(tools, tool)
	}

	if len(validationErrors) > 0 {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrInvalidCatalog, strings.Join(validationErrors, "; "))
	}

	messages := map[string]domain.Messages{}
	if settings.LocalesDir != "" {
		messages, err = LoadLocales(settings.LocalesDir)
		if err != nil {
			return Result{}, err
		}
	}

	defaultLocale := strings.TrimSpace(cfg.Locales.Default)
	if _, ok := messages[defaultLocale]; !ok && len(messages) > 0 {
		l.logger.Warn("default locale has no message bundle", zap.String("locale", defaultLocale))
	}

	l.logger.Debug("config loaded",
		zap.String("path", path),
		zap.Int("tools", len(tools)),
		zap.Int("locales", len(messages)),
	)

	return Result{
		Settings: settings,
		Catalog: domain.Catalog{
			Tools:         tools,
			Messages:      messages,
			DefaultLocale: defaultLocale,
		},
	}, nil
}

// LoadCatalog loads only the catalog part of the config file.
func (l *Loader) LoadCatalog(ctx context.Context, path string) (domain.Catalog, error) {
	result, err := l.Load(ctx, path)
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.Catalog, nil
}

func normalizeTool(raw rawTool) domain.Tool {
	var keywords []string
	for _, kw := range raw.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return domain.Tool{
		Name:        strings.TrimSpace(raw.Name),
		Path:        strings.TrimSpace(raw.Path),
		Description: strings.TrimSpace(raw.Description),
		Keywords:    keywords,
		Category:    strings.TrimSpace(raw.Category),
		IsNew:       raw.IsNew,
	}
}

func validateTool(tool domain.Tool, index int) []string {
	var errs []string
	if tool.Name == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: name is required", index))
	}
	if tool.Path == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: path is required", index))
	} else if !strings.HasPrefix(tool.Path, "/") {
		errs = append(errs, fmt.Sprintf("tools[%d]: path must start with /", index))
	}
	if tool.Category == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: category is required", index))
	}
	return errs
}

func normalizeSettings(cfg rawConfig, baseDir string) (domain.Settings, []string) {
	var errs []string

	site := domain.SiteConfig{
		Name:               strings.TrimSpace(cfg.Site.Name),
		BaseURL:            strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/"),
		DefaultTitle:       cfg.Site.DefaultTitle,
		DefaultDescription: cfg.Site.DefaultDescription,
		Keywords:           cfg.Site.Keywords,
		PrivacyPolicyURL:   strings.TrimSpace(cfg.Site.PrivacyPolicyURL),
	}
	if site.Name == "" {
		errs = append(errs, "site.name is required")
	}
	if parsed, err := url.Parse(site.BaseURL); err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, "site.baseURL must be a valid http(s) URL")
	}
	if site.PrivacyPolicyURL == "" {
		site.PrivacyPolicyURL = site.BaseURL + "/privacy"
	}

	favorites := domain.FavoritesConfig{
		Path:          resolvePath(baseDir, cfg.Favorites.Path),
		Key:           strings.TrimSpace(cfg.Favorites.Key),
		MigrateLegacy: cfg.Favorites.MigrateLegacy,
	}
	if favorites.Key == "" {
		errs = append(errs, "favorites.key must not be empty")
	}

	search := domain.SearchConfig{
		Threshold: cfg.Search.Threshold,
		Limit:     cfg.Search.Limit,
	}
	if search.Threshold > 1 {
		errs = append(errs, "search.threshold must be <= 1")
	}
	if search.Limit < 0 {
		errs = append(errs, "search.limit must be >= 0")
	}

	httpCfg := domain.HTTPConfig{
		ListenAddress: strings.TrimSpace(cfg.HTTP.ListenAddress),
		IndexTemplate: resolvePath(baseDir, cfg.HTTP.IndexTemplate),
		StaticDir:     resolvePath(baseDir, cfg.HTTP.StaticDir),
	}
	if httpCfg.ListenAddress == "" {
		errs = append(errs, "http.listenAddress is required")
	}

	observability := domain.ObservabilityConfig{
		ListenAddress:  strings.TrimSpace(cfg.Observability.ListenAddress),
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		HealthzEnabled: cfg.Observability.HealthzEnabled,
	}

	watch := domain.WatchConfig{
		Enabled:    cfg.Catalog.Watch.Enabled,
		DebounceMs: cfg.Catalog.Watch.DebounceMs,
	}
	if watch.DebounceMs < 0 {
		errs = append(errs, "catalog.watch.debounceMs must be >= 0")
	}

	return domain.Settings{
		Site:          site,
		Favorites:     favorites,
		Search:        search,
		HTTP:          httpCfg,
		Observability: observability,
		Watch:         watch,
		LocalesDir:    resolvePath(baseDir, cfg.Locales.Dir),
	}, errs
}

func resolvePath(baseDir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
