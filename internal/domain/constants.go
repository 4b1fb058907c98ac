package domain

const (
	DefaultSiteName                   = "ToolsApp Lab"
	DefaultSiteBaseURL                = "https://toolsapplab.com"
	DefaultSiteTitle                  = "ToolsApp Lab | The Pro Developer Playground"
	DefaultSiteDescription            = "100+ developer tools, zero tracking. All processing happens in your browser. JSON formatter, Base64 encoder, JWT decoder, regex tester, cron generator, and more. No signup. No ads. No servers."
	DefaultToolDescriptionSuffix      = "Free online tool. No signup. Works offline. Privacy-first design for developers."
	DefaultLocale                     = "en"
	DefaultProfileName                = "default"
	DefaultMaxProfiles                = 256
	MaxProfileNameLength              = 64
	DefaultFavoritesKey               = "favoriteToolsName"
	DefaultFavoritesMigrateLegacy     = true
	DefaultSearchThreshold            = 0.85
	DefaultSearchLimit                = 0
	DefaultSuggestionLimit            = 2
	DefaultSuggestionMinLength        = 3
	DefaultHTTPListenAddress          = "127.0.0.1:8080"
	DefaultObservabilityListenAddress = "0.0.0.0:9090"
	DefaultCatalogReloadDebounceMs    = 200
	StructuredDataScriptID            = "tool-structured-data"
)

// DefaultSiteKeywords are appended to every tool keyword list and used as-is
// on pages without a tool.
var DefaultSiteKeywords = []string{"toolsapp lab", "developer tools", "free online tool"}
