package seo

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

//go:embed assets/index.html
var defaultIndex []byte

// Renderer serves the single-page app shell with route metadata already in
// the head, so crawlers that do not run scripts still see it.
type Renderer struct {
	template []byte
	builder  *Builder
	tools    domain.ToolLookup
	logger   *zap.Logger
	metrics  domain.Metrics
}

// NewRenderer loads the index template from path, or uses the embedded shell
// when path is empty.
func NewRenderer(path string, builder *Builder, tools domain.ToolLookup, logger *zap.Logger, metrics domain.Metrics) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl := defaultIndex
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read index template: %w", err)
		}
		tmpl = data
	}
	if _, err := ParseDocument(bytes.NewReader(tmpl)); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	return &Renderer{
		template: tmpl,
		builder:  builder,
		tools:    tools,
		logger:   logger.Named("seo_render"),
		metrics:  metrics,
	}, nil
}

// Render writes the shell for route. Each call starts from a fresh parse of
// the template.
func (r *Renderer) Render(w io.Writer, route string) (domain.PageMetadata, error) {
	return r.RenderWith(w, route, r.tools)
}

// RenderWith is Render resolving route against tools, typically a localized
// view of the catalog.
func (r *Renderer) RenderWith(w io.Writer, route string, tools domain.ToolLookup) (domain.PageMetadata, error) {
	doc, err := ParseDocument(bytes.NewReader(r.template))
	if err != nil {
		return domain.PageMetadata{}, err
	}
	syncer := NewSynchronizer(doc, r.builder, tools, r.logger, r.metrics)
	meta := syncer.Mount(route)
	if err := doc.Render(w); err != nil {
		return domain.PageMetadata{}, fmt.Errorf("render index: %w", err)
	}
	return meta, nil
}
