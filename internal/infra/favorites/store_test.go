package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"toolsapp/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "favorites.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestBoltStore_SaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries, err := store.LoadFavorites(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)

	require.NoError(t, store.SaveFavorites(ctx, "default", []string{"/json-prettify", "JWT Decoder"}))
	entries, err = store.LoadFavorites(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, []string{"/json-prettify", "JWT Decoder"}, entries)

	updatedAt, err := store.UpdatedAt("default")
	require.NoError(t, err)
	require.NotEmpty(t, updatedAt)

	other, err := store.LoadFavorites(ctx, "work")
	require.NoError(t, err)
	require.Empty(t, other)

	profiles, err := store.Profiles()
	require.NoError(t, err)
	require.Equal(t, []string{"default"}, profiles)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.db")
	store, err := OpenBoltStore(path, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveFavorites(context.Background(), "default", []string{"/uuid-generator"}))
	require.NoError(t, store.Close())

	reopened, err := OpenBoltStore(path, "")
	require.NoError(t, err)
	defer reopened.Close()
	entries, err := reopened.LoadFavorites(context.Background(), "default")
	require.NoError(t, err)
	require.Equal(t, []string{"/uuid-generator"}, entries)
}

func TestBoltStore_Closed(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "favorites.db"), "")
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.LoadFavorites(context.Background(), "default")
	require.ErrorIs(t, err, domain.ErrStoreClosed)
	require.ErrorIs(t, store.SaveFavorites(context.Background(), "default", nil), domain.ErrStoreClosed)
}

func TestBoltStore_Validation(t *testing.T) {
	store := openTestStore(t)
	_, err := store.LoadFavorites(context.Background(), " ")
	require.ErrorIs(t, err, ErrMissingProfile)
	_, err = store.LoadFavorites(context.Background(), "../etc")
	require.ErrorIs(t, err, domain.ErrInvalidProfile)
	require.ErrorIs(t, store.SaveFavorites(context.Background(), "__updated_at", nil), domain.ErrInvalidProfile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, store.SaveFavorites(ctx, "default", nil), context.Canceled)

	_, err = OpenBoltStore("", "")
	require.Error(t, err)
	_, err = OpenBoltStore(filepath.Join(t.TempDir(), "x.db"), "__bad")
	require.Error(t, err)
}

func TestBoltStore_MigratesLegacyBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")
	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(rootBucketName))
		if err != nil {
			return err
		}
		legacy, err := root.CreateBucketIfNotExists([]byte(legacyBucketName))
		if err != nil {
			return err
		}
		raw, _ := json.Marshal([]string{"JSON Formatter"})
		return legacy.Put([]byte(domain.DefaultFavoritesKey), raw)
	}))
	require.NoError(t, db.Close())

	store, err := OpenBoltStore(path, "")
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.LoadFavorites(context.Background(), domain.DefaultProfileName)
	require.NoError(t, err)
	require.Equal(t, []string{"JSON Formatter"}, entries)

	require.NoError(t, store.view(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(rootBucketName))
		require.Nil(t, root.Bucket([]byte(legacyBucketName)))
		require.Equal(t, schemaVersion, readSchemaVersion(root.Bucket([]byte(metaBucketName))))
		return nil
	}))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveFavorites(ctx, "default", []string{"/a"}))
	entries, err := store.LoadFavorites(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, []string{"/a"}, entries)

	boom := errors.New("disk full")
	store.FailNextSave(boom)
	require.ErrorIs(t, store.SaveFavorites(ctx, "default", []string{"/b"}), boom)
	require.NoError(t, store.SaveFavorites(ctx, "default", []string{"/c"}))
}
