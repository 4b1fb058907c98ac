package domain

import "encoding/json"

// MetaAttr selects the attribute that keys a meta element.
type MetaAttr string

const (
	MetaAttrName     MetaAttr = "name"
	MetaAttrProperty MetaAttr = "property"
)

// MetaTag is a single keyed meta element.
type MetaTag struct {
	Attr    MetaAttr `json:"attr"`
	Key     string   `json:"key"`
	Content string   `json:"content"`
}

// PageMetadata is the full set of document metadata for a route.
// StructuredData is nil when no structured-data script should exist.
type PageMetadata struct {
	Route          string          `json:"route"`
	ToolPath       string          `json:"toolPath,omitempty"`
	Title          string          `json:"title"`
	Tags           []MetaTag       `json:"tags"`
	CanonicalURL   string          `json:"canonicalUrl"`
	StructuredData json.RawMessage `json:"structuredData,omitempty"`
}

// Tag returns the content of a keyed meta tag.
func (m PageMetadata) Tag(attr MetaAttr, key string) (string, bool) {
	for _, tag := range m.Tags {
		if tag.Attr == attr && tag.Key == key {
			return tag.Content, true
		}
	}
	return "", false
}
