package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Messages is a flattened localization bundle: lower-cased dotted key to text.
type Messages map[string]string

// Catalog is the static tool list together with its localization lookup.
type Catalog struct {
	Tools         []Tool              `json:"tools"`
	Messages      map[string]Messages `json:"messages,omitempty"`
	DefaultLocale string              `json:"defaultLocale"`
}

// ToolByPath implements ToolLookup over the raw (unlocalized) catalog.
func (c Catalog) ToolByPath(path string) (Tool, bool) {
	for _, tool := range c.Tools {
		if tool.Path == path {
			return tool, true
		}
	}
	return Tool{}, false
}

// Locales returns the locales that have a message bundle.
func (c Catalog) Locales() []string {
	out := make([]string, 0, len(c.Messages))
	for locale := range c.Messages {
		out = append(out, locale)
	}
	return out
}

// Translate looks up key for locale, then for the default locale, and finally
// returns fallback.
func (c Catalog) Translate(locale, key, fallback string) string {
	key = strings.ToLower(key)
	if bundle, ok := c.Messages[locale]; ok {
		if text, ok := bundle[key]; ok && text != "" {
			return text
		}
	}
	if c.DefaultLocale != "" && c.DefaultLocale != locale {
		if bundle, ok := c.Messages[c.DefaultLocale]; ok {
			if text, ok := bundle[key]; ok && text != "" {
				return text
			}
		}
	}
	return fallback
}

// CatalogETag returns a content hash of the catalog.
func CatalogETag(catalog Catalog) (string, error) {
	raw, err := json.Marshal(catalog)
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// CatalogState captures the current catalog snapshot and metadata.
type CatalogState struct {
	Catalog  Catalog
	ETag     string
	Revision uint64
	LoadedAt time.Time
}

// NewCatalogState builds a catalog state from a catalog.
func NewCatalogState(catalog Catalog, revision uint64, loadedAt time.Time) (CatalogState, error) {
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	etag, err := CatalogETag(catalog)
	if err != nil {
		return CatalogState{}, err
	}
	return CatalogState{
		Catalog:  catalog,
		ETag:     etag,
		Revision: revision,
		LoadedAt: loadedAt,
	}, nil
}

type CatalogUpdateSource string

const (
	CatalogUpdateSourceBootstrap CatalogUpdateSource = "bootstrap"
	CatalogUpdateSourceWatch     CatalogUpdateSource = "watch"
	CatalogUpdateSourceManual    CatalogUpdateSource = "manual"
)

type CatalogUpdate struct {
	Snapshot CatalogState
	Diff     CatalogDiff
	Source   CatalogUpdateSource
}

type CatalogProvider interface {
	Snapshot(ctx context.Context) (CatalogState, error)
	Watch(ctx context.Context) (<-chan CatalogUpdate, error)
	Reload(ctx context.Context) error
}
