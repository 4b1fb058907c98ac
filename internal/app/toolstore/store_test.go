package toolstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/favorites"
	"toolsapp/internal/infra/search"
	"toolsapp/internal/infra/telemetry"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		DefaultLocale: "en",
		Tools: []domain.Tool{
			{Name: "JSON Formatter", Path: "/json-prettify", Description: "Prettify JSON", Keywords: []string{"json"}, Category: "Development"},
			{Name: "JWT Decoder", Path: "/jwt-parser", Description: "Decode JWT", Keywords: []string{"jwt", "token"}, Category: "Crypto", IsNew: true},
			{Name: "Cron Generator", Path: "/crontab-generator", Description: "Build cron", Category: "Development"},
			{Name: "UUID Generator", Path: "/uuid-generator", Description: "Generate UUIDs", Category: "Crypto", IsNew: true},
			{Name: "Base64", Path: "/base64-string-converter", Description: "Encode", Category: "Converter"},
		},
		Messages: map[string]domain.Messages{
			"en": {},
			"zh": {
				"tools.json-prettify.title":       "JSON 格式化",
				"tools.json-prettify.description": "格式化 JSON",
				"tools.categories.development":    "开发",
				"tools.categories.crypto":         "加密",
			},
		},
	}
}

type countingMetrics struct {
	*telemetry.NoopMetrics
	persistFailures int
	changes         []domain.FavoriteAction
}

func (c *countingMetrics) ObserveFavoritePersistFailure() { c.persistFailures++ }

func (c *countingMetrics) ObserveFavoriteChange(action domain.FavoriteAction) {
	c.changes = append(c.changes, action)
}

func newTestRegistry(t *testing.T, repo domain.FavoritesRepository) *Registry {
	t.Helper()
	return NewRegistry(testCatalog(), repo, Options{
		Search:        domain.SearchConfig{Threshold: domain.DefaultSearchThreshold},
		MigrateLegacy: false,
	}, zap.NewNop(), nil)
}

func openStore(t *testing.T, ctx context.Context, reg *Registry, profile, locale string) *Store {
	t.Helper()
	store, err := reg.Store(ctx, profile, locale)
	require.NoError(t, err)
	return store
}

func paths(tools []domain.Tool) []string {
	out := make([]string, 0, len(tools))
	for _, tool := range tools {
		out = append(out, tool.Path)
	}
	return out
}

func TestStore_LocalizesWithFallback(t *testing.T) {
	reg := newTestRegistry(t, nil)
	zh := openStore(t, context.Background(), reg, "", "zh")

	tools := zh.Tools()
	require.Equal(t, "JSON 格式化", tools[0].Name)
	require.Equal(t, "格式化 JSON", tools[0].Description)
	require.Equal(t, "开发", tools[0].Category)
	require.Equal(t, "JWT Decoder", tools[1].Name)
	require.Equal(t, "加密", tools[1].Category)
	require.Equal(t, "Converter", tools[4].Category)

	en := openStore(t, context.Background(), reg, "", "")
	require.Equal(t, "en", en.Locale())
	require.Equal(t, "JSON Formatter", en.Tools()[0].Name)

	en.SetLocale("zh")
	require.Equal(t, "JSON 格式化", en.Tools()[0].Name)
}

func TestStore_ToolsByCategoryOrderStable(t *testing.T) {
	reg := newTestRegistry(t, nil)
	store := openStore(t, context.Background(), reg, "default", "en")

	first := store.ToolsByCategory()
	names := make([]string, 0, len(first))
	for _, group := range first {
		names = append(names, group.Name)
	}
	require.Equal(t, []string{"Development", "Crypto", "Converter"}, names)
	require.Equal(t, "development", first[0].Path)
	require.Equal(t, []string{"/json-prettify", "/crontab-generator"}, paths(first[0].Components))
	require.Equal(t, []string{"/jwt-parser", "/uuid-generator"}, paths(first[1].Components))

	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, store.ToolsByCategory()); diff != "" {
			t.Fatalf("grouping changed (-first +again):\n%s", diff)
		}
	}
}

func TestStore_NewTools(t *testing.T) {
	store := openStore(t, context.Background(), newTestRegistry(t, nil), "", "")
	require.Equal(t, []string{"/jwt-parser", "/uuid-generator"}, paths(store.NewTools()))
}

func TestStore_AddFavoriteIsIdempotent(t *testing.T) {
	repo := favorites.NewMemoryStore()
	store := openStore(t, context.Background(), newTestRegistry(t, repo), "", "")

	tool, ok := store.ToolByPath("/jwt-parser")
	require.True(t, ok)
	store.AddToolToFavorites(tool)
	store.AddToolToFavorites(tool)

	require.Equal(t, []string{"/jwt-parser"}, store.FavoriteEntries())
	require.True(t, store.IsToolFavorite(tool))
	require.Equal(t, []string{"/jwt-parser"}, paths(store.FavoriteTools()))

	persisted, err := repo.LoadFavorites(context.Background(), domain.DefaultProfileName)
	require.NoError(t, err)
	require.Equal(t, []string{"/jwt-parser"}, persisted)
}

func TestStore_RemoveMatchesLegacyName(t *testing.T) {
	repo := favorites.NewMemoryStore()
	require.NoError(t, repo.SaveFavorites(context.Background(), "default", []string{"JSON Formatter", "/uuid-generator"}))

	store := openStore(t, context.Background(), newTestRegistry(t, repo), "default", "en")
	tool, ok := store.ToolByPath("/json-prettify")
	require.True(t, ok)
	require.NotEqual(t, tool.Name, tool.Path)

	require.True(t, store.IsToolFavorite(tool))
	require.Equal(t, []string{"/json-prettify", "/uuid-generator"}, paths(store.FavoriteTools()))

	store.RemoveToolFromFavorites(tool)
	require.False(t, store.IsToolFavorite(tool))
	require.Equal(t, []string{"/uuid-generator"}, store.FavoriteEntries())

	persisted, err := repo.LoadFavorites(context.Background(), "default")
	require.NoError(t, err)
	require.Equal(t, []string{"/uuid-generator"}, persisted)
}

func TestStore_RemoveDropsBothKeys(t *testing.T) {
	repo := favorites.NewMemoryStore()
	require.NoError(t, repo.SaveFavorites(context.Background(), "default", []string{"JWT Decoder", "/jwt-parser"}))

	store := openStore(t, context.Background(), newTestRegistry(t, repo), "default", "en")
	tool, _ := store.ToolByPath("/jwt-parser")
	store.RemoveToolFromFavorites(tool)
	require.Empty(t, store.FavoriteEntries())
}

func TestStore_UpdateFavoriteToolsReplacesOrder(t *testing.T) {
	store := openStore(t, context.Background(), newTestRegistry(t, favorites.NewMemoryStore()), "", "")
	all := store.Tools()
	store.AddToolToFavorites(all[0])
	store.AddToolToFavorites(all[1])

	store.UpdateFavoriteTools([]domain.Tool{all[3], all[0]})
	require.Equal(t, []string{"/uuid-generator", "/json-prettify"}, store.FavoriteEntries())
	// FavoriteTools keeps catalog order.
	require.Equal(t, []string{"/json-prettify", "/uuid-generator"}, paths(store.FavoriteTools()))
}

func TestStore_FavoritesSharedAcrossLocales(t *testing.T) {
	reg := newTestRegistry(t, favorites.NewMemoryStore())
	en := openStore(t, context.Background(), reg, "alice", "en")
	zh := openStore(t, context.Background(), reg, "alice", "zh")
	bob := openStore(t, context.Background(), reg, "bob", "en")

	tool, _ := en.ToolByPath("/json-prettify")
	en.AddToolToFavorites(tool)

	require.Equal(t, []string{"/json-prettify"}, paths(zh.FavoriteTools()))
	require.Equal(t, "JSON 格式化", zh.FavoriteTools()[0].Name)
	require.Empty(t, bob.FavoriteTools())
	require.Same(t, en, openStore(t, context.Background(), reg, "alice", "en"))
}

func TestStore_PersistFailureKeepsChange(t *testing.T) {
	repo := favorites.NewMemoryStore()
	metrics := &countingMetrics{NoopMetrics: telemetry.NewNoopMetrics()}
	reg := NewRegistry(testCatalog(), repo, Options{}, zap.NewNop(), metrics)
	store := openStore(t, context.Background(), reg, "", "")

	repo.FailNextSave(errors.New("disk full"))
	tool, _ := store.ToolByPath("/jwt-parser")
	store.AddToolToFavorites(tool)

	require.True(t, store.IsToolFavorite(tool))
	require.Equal(t, 1, metrics.persistFailures)
	require.Equal(t, []domain.FavoriteAction{domain.FavoriteActionAdd}, metrics.changes)
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	repo := favorites.NewMemoryStore()
	reg := newTestRegistry(t, repo)
	store := openStore(t, context.Background(), reg, " ", "")
	require.Equal(t, domain.DefaultProfileName, store.Profile())
	require.Empty(t, store.FavoriteTools())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	broken := openStore(t, ctx, reg, "canceled", "")
	require.Empty(t, broken.FavoriteEntries())
}

func TestStore_CatalogReloadRecomputes(t *testing.T) {
	reg := newTestRegistry(t, nil)
	store := openStore(t, context.Background(), reg, "", "")
	require.Len(t, store.Tools(), 5)
	require.Equal(t, []string{"/jwt-parser"}, paths(store.SearchText("jwt")))

	next := testCatalog()
	next.Tools = next.Tools[2:]
	reg.ApplyCatalog(next)

	require.Len(t, store.Tools(), 3)
	_, ok := store.ToolByPath("/jwt-parser")
	require.False(t, ok)
	require.NotContains(t, paths(store.SearchText("jwt")), "/jwt-parser")
	_, ok = reg.ToolByPath("/jwt-parser")
	require.False(t, ok)
}

func TestStore_Search(t *testing.T) {
	store := openStore(t, context.Background(), newTestRegistry(t, nil), "", "")

	require.Empty(t, store.SearchText(""))
	require.Len(t, store.Search(search.Query{Text: "", FilterEmpty: false}), 5)

	results := store.Search(search.Query{Text: "uuid", FilterEmpty: true})
	require.NotEmpty(t, results)
	require.Equal(t, "/uuid-generator", results[0].Path)
}

func TestStore_AccessorsReturnCopies(t *testing.T) {
	store := openStore(t, context.Background(), newTestRegistry(t, nil), "", "")
	tools := store.Tools()
	tools[0].Name = "mutated"
	tools[0].Keywords[0] = "mutated"
	require.Equal(t, "JSON Formatter", store.Tools()[0].Name)
	require.Equal(t, []string{"json"}, store.Tools()[0].Keywords)
}

func TestRegistry_Locales(t *testing.T) {
	reg := newTestRegistry(t, nil)
	require.Equal(t, []string{"en", "zh"}, reg.Locales())
}

func TestRegistry_UnknownLocalesShareDefaultStore(t *testing.T) {
	reg := newTestRegistry(t, nil)
	def := openStore(t, context.Background(), reg, "", "")

	for i := 0; i < 100; i++ {
		store := openStore(t, context.Background(), reg, "", fmt.Sprintf("xx-%d", i))
		require.Same(t, def, store)
	}
	require.Equal(t, "zh", openStore(t, context.Background(), reg, "", "zh-Hans-CN").Locale())
	require.Equal(t, "zh", openStore(t, context.Background(), reg, "", "ZH").Locale())

	profiles, stores := reg.Size()
	require.Equal(t, 1, profiles)
	require.Equal(t, 2, stores)
}

func TestRegistry_RejectsInvalidProfiles(t *testing.T) {
	reg := newTestRegistry(t, favorites.NewMemoryStore())
	for _, profile := range []string{"../etc", "__updated_at", "a b", "-x", strings.Repeat("a", domain.MaxProfileNameLength+1)} {
		_, err := reg.Store(context.Background(), profile, "")
		require.ErrorIs(t, err, domain.ErrInvalidProfile, profile)
	}
	profiles, stores := reg.Size()
	require.Zero(t, profiles)
	require.Zero(t, stores)
}

func TestRegistry_BoundsProfiles(t *testing.T) {
	reg := NewRegistry(testCatalog(), favorites.NewMemoryStore(), Options{MaxProfiles: 3}, zap.NewNop(), nil)
	for i := 0; i < 3; i++ {
		openStore(t, context.Background(), reg, fmt.Sprintf("p%d", i), "")
	}

	_, err := reg.Store(context.Background(), "p3", "")
	require.ErrorIs(t, err, domain.ErrProfileLimit)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeUnavailable, code)

	// Known profiles keep working, including in other locales.
	openStore(t, context.Background(), reg, "p1", "zh")
	profiles, stores := reg.Size()
	require.Equal(t, 3, profiles)
	require.Equal(t, 4, stores)
}
