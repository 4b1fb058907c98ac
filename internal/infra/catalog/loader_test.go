package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

func TestLoader_Success(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "locales/en.yaml", `
tools:
  json-prettify:
    title: JSON Formatter
  categories:
    development: Development
`)
	writeFile(t, dir, "locales/zh.toml", `
[tools.json-prettify]
title = "JSON 格式化"
description = "格式化 JSON"

[tools.categories]
Development = "开发"
`)
	file := writeFile(t, dir, "toolsapp.yaml", `
locales:
  dir: locales
favorites:
  path: data/favorites.db
tools:
  - name: JSON Formatter
    path: /json-prettify
    description: Prettify JSON
    keywords: [json, " format ", ""]
    category: Development
    isNew: true
  - name: JWT Decoder
    path: /jwt-parser
    description: Decode JWT
    category: Crypto
`)

	loader := NewLoader(zap.NewNop())
	result, err := loader.Load(context.Background(), file)
	require.NoError(t, err)

	expectTools := []domain.Tool{
		{
			Name:        "JSON Formatter",
			Path:        "/json-prettify",
			Description: "Prettify JSON",
			Keywords:    []string{"json", "format"},
			Category:    "Development",
			IsNew:       true,
		},
		{
			Name:        "JWT Decoder",
			Path:        "/jwt-parser",
			Description: "Decode JWT",
			Category:    "Crypto",
		},
	}
	if diff := cmp.Diff(expectTools, result.Catalog.Tools); diff != "" {
		t.Fatalf("tools mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, domain.DefaultLocale, result.Catalog.DefaultLocale)
	require.Equal(t, "JSON Formatter", result.Catalog.Messages["en"]["tools.json-prettify.title"])
	require.Equal(t, "JSON 格式化", result.Catalog.Messages["zh"]["tools.json-prettify.title"])
	require.Equal(t, "开发", result.Catalog.Messages["zh"]["tools.categories.development"])

	settings := result.Settings
	require.Equal(t, domain.DefaultSiteName, settings.Site.Name)
	require.Equal(t, domain.DefaultSiteBaseURL, settings.Site.BaseURL)
	require.Equal(t, domain.DefaultSiteBaseURL+"/privacy", settings.Site.PrivacyPolicyURL)
	require.Equal(t, domain.DefaultSiteKeywords, settings.Site.Keywords)
	require.Equal(t, filepath.Join(dir, "data/favorites.db"), settings.Favorites.Path)
	require.Equal(t, domain.DefaultFavoritesKey, settings.Favorites.Key)
	require.True(t, settings.Favorites.MigrateLegacy)
	require.Equal(t, domain.DefaultSearchThreshold, settings.Search.Threshold)
	require.Equal(t, domain.DefaultHTTPListenAddress, settings.HTTP.ListenAddress)
	require.Equal(t, domain.DefaultObservabilityListenAddress, settings.Observability.ListenAddress)
	require.Equal(t, domain.DefaultCatalogReloadDebounceMs, settings.Watch.DebounceMs)
	require.Equal(t, filepath.Join(dir, "locales"), settings.LocalesDir)
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("TOOLSAPP_BASE_URL", "https://tools.example.com/")
	dir := t.TempDir()
	file := writeFile(t, dir, "toolsapp.yaml", `
site:
  baseURL: ${TOOLSAPP_BASE_URL}
search:
  limit: ${TOOLSAPP_SEARCH_LIMIT:-5}
tools: []
`)

	result, err := NewLoader(nil).Load(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "https://tools.example.com", result.Settings.Site.BaseURL)
	require.Equal(t, 5, result.Settings.Search.Limit)
}

func TestLoader_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "toolsapp.yaml", `
site:
  baseURL: not-a-url
search:
  limit: -1
tools:
  - name: A
    path: a
    category: X
  - name: B
    path: /b
  - name: C
    path: /c
    category: X
  - name: C2
    path: /c
    category: X
`)

	_, err := NewLoader(zap.NewNop()).Load(context.Background(), file)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidCatalog)
	require.Contains(t, err.Error(), "site.baseURL must be a valid http(s) URL")
	require.Contains(t, err.Error(), "search.limit must be >= 0")
	require.Contains(t, err.Error(), "tools[0]: path must start with /")
	require.Contains(t, err.Error(), "tools[1]: category is required")
	require.Contains(t, err.Error(), `tools[3]: duplicate path "/c"`)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = NewLoader(nil).Load(context.Background(), "")
	require.Error(t, err)
}

func TestLoadLocales_MergesBundles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.toml", `
[tools.base64-string-converter]
title = "Base64"
`)
	writeFile(t, dir, "en.yaml", `
tools:
  uuid-generator:
    title: UUID Generator
`)
	writeFile(t, dir, "README.md", "ignored")

	bundles, err := LoadLocales(dir)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	require.Equal(t, domain.Messages{
		"tools.base64-string-converter.title": "Base64",
		"tools.uuid-generator.title":          "UUID Generator",
	}, bundles["en"])
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
