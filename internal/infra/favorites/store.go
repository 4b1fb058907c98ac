// Package favorites persists per-profile favorite tool lists.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"toolsapp/internal/domain"
)

const (
	updatedAtKey   = "__updated_at"
	reservedPrefix = "__"
)

var ErrMissingProfile = errors.New("profile is required")

// BoltStore keeps favorite lists in a bbolt file, one bucket per profile.
// Each list is a JSON array of strings stored under a fixed key.
type BoltStore struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	key    string
	closed bool
}

var _ domain.FavoritesRepository = (*BoltStore)(nil)

// OpenBoltStore opens or creates the store at path. key names the entry the
// list is stored under; empty means the default key.
func OpenBoltStore(path string, key string) (*BoltStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("favorites path is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = domain.DefaultFavoritesKey
	}
	if strings.HasPrefix(key, reservedPrefix) {
		return nil, fmt.Errorf("favorites key %q uses reserved prefix", key)
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure favorites dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open favorites db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, path: trimmed, key: key}, nil
}

func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// LoadFavorites returns the stored list for profile. A profile that never
// saved anything has an empty list.
func (s *BoltStore) LoadFavorites(ctx context.Context, profile string) ([]string, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := []string{}
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := profileBucket(tx, profile, false)
		if err != nil || bucket == nil {
			return err
		}
		raw := bucket.Get([]byte(s.key))
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode favorites for %s: %w", profile, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveFavorites replaces the stored list for profile.
func (s *BoltStore) SaveFavorites(ctx context.Context, profile string, entries []string) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []string{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := profileBucket(tx, profile, true)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(s.key), raw); err != nil {
			return fmt.Errorf("write favorites for %s: %w", profile, err)
		}
		return writeUpdatedAt(bucket)
	})
}

// UpdatedAt reports when the profile's list was last written.
func (s *BoltStore) UpdatedAt(profile string) (string, error) {
	if err := validateProfile(profile); err != nil {
		return "", err
	}
	var out string
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := profileBucket(tx, profile, false)
		if err != nil || bucket == nil {
			return err
		}
		out = string(bucket.Get([]byte(updatedAtKey)))
		return nil
	})
	return out, err
}

// Profiles lists the profiles that have stored data.
func (s *BoltStore) Profiles() ([]string, error) {
	var out []string
	err := s.view(func(tx *bolt.Tx) error {
		profiles, err := profilesBucket(tx)
		if err != nil {
			return err
		}
		return profiles.ForEach(func(key, value []byte) error {
			if value == nil {
				out = append(out, string(key))
			}
			return nil
		})
	})
	sort.Strings(out)
	return out, err
}

func (s *BoltStore) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *BoltStore) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return s.db.Update(fn)
}

func validateProfile(profile string) error {
	if strings.TrimSpace(profile) == "" {
		return ErrMissingProfile
	}
	return domain.ValidateProfileName(profile)
}

func profilesBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	profiles := root.Bucket([]byte(profilesBucketName))
	if profiles == nil {
		return nil, fmt.Errorf("missing profiles bucket")
	}
	return profiles, nil
}

func profileBucket(tx *bolt.Tx, profile string, create bool) (*bolt.Bucket, error) {
	profiles, err := profilesBucket(tx)
	if err != nil {
		return nil, err
	}
	key := []byte(profile)
	if !create {
		return profiles.Bucket(key), nil
	}
	bucket, err := profiles.CreateBucketIfNotExists(key)
	if err != nil {
		return nil, fmt.Errorf("create profile bucket: %w", err)
	}
	return bucket, nil
}

func writeUpdatedAt(bucket *bolt.Bucket) error {
	value := time.Now().UTC().Format(time.RFC3339Nano)
	return bucket.Put([]byte(updatedAtKey), []byte(value))
}
