package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
)

const testConfig = `
favorites:
  path: data/favorites.db
tools:
  - name: JWT Decoder
    path: /jwt-parser
    description: Decode JWT
    keywords: [jwt]
    category: Crypto
  - name: UUID Generator
    path: /uuid-generator
    description: Generate UUIDs
    category: Crypto
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "toolsapp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateConfig(t *testing.T) {
	a := New(zap.NewNop())
	require.NoError(t, a.ValidateConfig(context.Background(), ValidateConfig{ConfigPath: writeTestConfig(t, testConfig)}))

	err := a.ValidateConfig(context.Background(), ValidateConfig{ConfigPath: writeTestConfig(t, "tools:\n  - name: x\n")})
	require.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestOffline_FavoritesPersistAcrossOpens(t *testing.T) {
	path := writeTestConfig(t, testConfig)
	ctx := context.Background()

	offline, err := OpenOffline(ctx, OfflineConfig{ConfigPath: path}, nil)
	require.NoError(t, err)
	store, err := offline.Store(ctx, "", "")
	require.NoError(t, err)
	tool, ok := store.ToolByPath("/uuid-generator")
	require.True(t, ok)
	store.AddToolToFavorites(tool)
	offline.Close()

	reopened, err := OpenOffline(ctx, OfflineConfig{ConfigPath: path}, nil)
	require.NoError(t, err)
	defer reopened.Close()
	again, err := reopened.Store(ctx, "", "")
	require.NoError(t, err)
	require.Equal(t, []string{"/uuid-generator"}, again.FavoriteEntries())
	require.FileExists(t, filepath.Join(filepath.Dir(path), "data", "favorites.db"))
}

func TestInitializeApplication(t *testing.T) {
	path := writeTestConfig(t, testConfig)
	ctx := context.Background()

	application, cleanup, err := InitializeApplication(ctx, ServeConfig{ConfigPath: path}, LoggingConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NotNil(t, application)

	rec := httptest.NewRecorder()
	application.api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/uuid-generator")

	// Cleanup releases the favorites database for the next opener.
	cleanup()
	offline, err := OpenOffline(ctx, OfflineConfig{ConfigPath: path}, nil)
	require.NoError(t, err)
	offline.Close()
}

func TestResolveObservability(t *testing.T) {
	cfg := domain.ObservabilityConfig{MetricsEnabled: true, HealthzEnabled: true}

	metrics, healthz := resolveObservability(cfg, nil)
	require.True(t, metrics)
	require.True(t, healthz)

	t.Setenv("TOOLSAPP_METRICS_ENABLED", "false")
	metrics, _ = resolveObservability(cfg, nil)
	require.False(t, metrics)

	enabled := true
	metrics, _ = resolveObservability(cfg, &ObservabilityOptions{MetricsEnabled: &enabled})
	require.True(t, metrics)
}

type fakeProvider struct {
	state   domain.CatalogState
	updates chan domain.CatalogUpdate
}

func (f *fakeProvider) Snapshot(context.Context) (domain.CatalogState, error) { return f.state, nil }

func (f *fakeProvider) Watch(context.Context) (<-chan domain.CatalogUpdate, error) {
	return f.updates, nil
}

func (f *fakeProvider) Reload(context.Context) error { return nil }

func TestReloadManager_AppliesNewerRevisions(t *testing.T) {
	prev := domain.Catalog{DefaultLocale: "en", Tools: []domain.Tool{{Name: "A", Path: "/a", Category: "X"}}}
	next := domain.Catalog{DefaultLocale: "en", Tools: []domain.Tool{{Name: "A", Path: "/a", Category: "X"}, {Name: "B", Path: "/b", Category: "X"}}}
	prevState, err := domain.NewCatalogState(prev, 1, time.Time{})
	require.NoError(t, err)
	nextState, err := domain.NewCatalogState(next, 2, time.Time{})
	require.NoError(t, err)

	provider := &fakeProvider{state: prevState, updates: make(chan domain.CatalogUpdate, 2)}
	registry := toolstore.NewRegistry(prev, nil, toolstore.Options{}, nil, nil)
	manager := NewReloadManager(provider, registry, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- manager.Run(ctx) }()

	provider.updates <- domain.CatalogUpdate{
		Snapshot: nextState,
		Diff:     domain.DiffCatalogStates(prevState, nextState),
		Source:   domain.CatalogUpdateSourceWatch,
	}
	require.Eventually(t, func() bool { return manager.AppliedRevision() == 2 }, time.Second, 5*time.Millisecond)
	require.Len(t, registry.Catalog().Tools, 2)

	// A stale revision is ignored.
	provider.updates <- domain.CatalogUpdate{
		Snapshot: prevState,
		Diff:     domain.DiffCatalogStates(nextState, prevState),
		Source:   domain.CatalogUpdateSourceManual,
	}
	cancel()
	require.NoError(t, <-done)
	require.Len(t, registry.Catalog().Tools, 2)
}
