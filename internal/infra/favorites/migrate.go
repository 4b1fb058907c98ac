package favorites

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"toolsapp/internal/domain"
)

const (
	schemaVersion = 2

	rootBucketName     = "toolsapp"
	metaBucketName     = "meta"
	profilesBucketName = "profiles"
	versionKey         = "version"

	// legacyBucketName held a single unscoped list in schema version 1.
	legacyBucketName = "favorites"
)

func ensureSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(rootBucketName))
		if err != nil {
			return fmt.Errorf("create root bucket: %w", err)
		}
		meta, err := root.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		if _, err := root.CreateBucketIfNotExists([]byte(profilesBucketName)); err != nil {
			return fmt.Errorf("create profiles bucket: %w", err)
		}

		currentVersion := readSchemaVersion(meta)
		switch {
		case currentVersion == 0 && root.Bucket([]byte(legacyBucketName)) == nil:
			return writeSchemaVersion(meta, schemaVersion)
		case currentVersion > schemaVersion:
			return fmt.Errorf("unsupported favorites schema version %d", currentVersion)
		case currentVersion < schemaVersion:
			if err := migrateSchema(root, currentVersion); err != nil {
				return err
			}
			return writeSchemaVersion(meta, schemaVersion)
		default:
			return nil
		}
	})
}

// migrateSchema moves the version 1 single list into the default profile.
// A file with a legacy bucket but no version key is treated as version 1.
func migrateSchema(root *bolt.Bucket, fromVersion int) error {
	if fromVersion == 0 {
		fromVersion = 1
	}
	if fromVersion != 1 {
		return fmt.Errorf("missing migration path from %d to %d", fromVersion, schemaVersion)
	}
	legacy := root.Bucket([]byte(legacyBucketName))
	if legacy == nil {
		return nil
	}
	raw := legacy.Get([]byte(domain.DefaultFavoritesKey))
	if len(raw) > 0 {
		var entries []string
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode legacy favorites: %w", err)
		}
		profiles := root.Bucket([]byte(profilesBucketName))
		bucket, err := profiles.CreateBucketIfNotExists([]byte(domain.DefaultProfileName))
		if err != nil {
			return fmt.Errorf("create default profile bucket: %w", err)
		}
		if existing := bucket.Get([]byte(domain.DefaultFavoritesKey)); len(existing) == 0 {
			if err := bucket.Put([]byte(domain.DefaultFavoritesKey), raw); err != nil {
				return fmt.Errorf("write migrated favorites: %w", err)
			}
		}
	}
	return root.DeleteBucket([]byte(legacyBucketName))
}

func readSchemaVersion(meta *bolt.Bucket) int {
	if meta == nil {
		return 0
	}
	raw := meta.Get([]byte(versionKey))
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func writeSchemaVersion(meta *bolt.Bucket, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return meta.Put([]byte(versionKey), buf)
}
