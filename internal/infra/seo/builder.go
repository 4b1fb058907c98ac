// Package seo derives per-route document metadata and applies it to an HTML
// document head.
package seo

import (
	"strings"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

// Builder derives page metadata from a tool and a route. It holds no state
// besides the site configuration.
type Builder struct {
	site   domain.SiteConfig
	logger *zap.Logger
}

func NewBuilder(site domain.SiteConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := domain.DefaultSettings().Site
	if site.Name == "" {
		site.Name = def.Name
	}
	if site.BaseURL == "" {
		site.BaseURL = def.BaseURL
	}
	if site.DefaultTitle == "" {
		site.DefaultTitle = def.DefaultTitle
	}
	if site.DefaultDescription == "" {
		site.DefaultDescription = def.DefaultDescription
	}
	if site.Keywords == nil {
		site.Keywords = def.Keywords
	}
	if site.PrivacyPolicyURL == "" {
		site.PrivacyPolicyURL = strings.TrimRight(site.BaseURL, "/") + "/privacy"
	}
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &Builder{site: site, logger: logger.Named("seo")}
}

// Site returns the effective site configuration.
func (b *Builder) Site() domain.SiteConfig {
	return b.site
}

// URL returns the absolute URL of route.
func (b *Builder) URL(route string) string {
	if route == "" {
		route = "/"
	}
	return b.site.BaseURL + route
}

// Build returns the metadata for route. A nil tool yields the site defaults
// with no structured data.
func (b *Builder) Build(tool *domain.Tool, route string) domain.PageMetadata {
	if tool == nil {
		return b.defaults(route)
	}

	url := b.URL(route)
	title := tool.Name + " - " + b.site.Name
	description := tool.Name + ": " + tool.Description + " " + domain.DefaultToolDescriptionSuffix

	tags := []domain.MetaTag{
		{Attr: domain.MetaAttrName, Key: "description", Content: description},
		{Attr: domain.MetaAttrName, Key: "twitter:description", Content: description},
		{Attr: domain.MetaAttrProperty, Key: "og:description", Content: description},
	}
	if len(tool.Keywords) > 0 {
		keywords := append(append([]string{}, tool.Keywords...), b.site.Keywords...)
		tags = append(tags, domain.MetaTag{Attr: domain.MetaAttrName, Key: "keywords", Content: strings.Join(keywords, ", ")})
	}
	tags = append(tags,
		domain.MetaTag{Attr: domain.MetaAttrProperty, Key: "og:title", Content: title},
		domain.MetaTag{Attr: domain.MetaAttrName, Key: "twitter:title", Content: title},
		domain.MetaTag{Attr: domain.MetaAttrProperty, Key: "og:url", Content: url},
		domain.MetaTag{Attr: domain.MetaAttrName, Key: "twitter:url", Content: url},
	)

	data, err := b.structuredData(tool, url)
	if err != nil {
		b.logger.Warn("structured data encoding failed", zap.String("path", tool.Path), zap.Error(err))
	}

	return domain.PageMetadata{
		Route:          route,
		ToolPath:       tool.Path,
		Title:          title,
		Tags:           tags,
		CanonicalURL:   url,
		StructuredData: data,
	}
}

func (b *Builder) defaults(route string) domain.PageMetadata {
	url := b.URL(route)
	tags := []domain.MetaTag{
		{Attr: domain.MetaAttrName, Key: "description", Content: b.site.DefaultDescription},
		{Attr: domain.MetaAttrProperty, Key: "og:description", Content: b.site.DefaultDescription},
		{Attr: domain.MetaAttrName, Key: "twitter:description", Content: b.site.DefaultDescription},
	}
	if len(b.site.Keywords) > 0 {
		tags = append(tags, domain.MetaTag{Attr: domain.MetaAttrName, Key: "keywords", Content: strings.Join(b.site.Keywords, ", ")})
	}
	tags = append(tags,
		domain.MetaTag{Attr: domain.MetaAttrProperty, Key: "og:title", Content: b.site.DefaultTitle},
		domain.MetaTag{Attr: domain.MetaAttrName, Key: "twitter:title", Content: b.site.DefaultTitle},
		domain.MetaTag{Attr: domain.MetaAttrProperty, Key: "og:url", Content: url},
		domain.MetaTag{Attr: domain.MetaAttrName, Key: "twitter:url", Content: url},
	)
	return domain.PageMetadata{
		Route:        route,
		Title:        b.site.DefaultTitle,
		Tags:         tags,
		CanonicalURL: url,
	}
}
