package seo

import (
	"sync"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

// Synchronizer keeps a Document's metadata in step with the active route.
type Synchronizer struct {
	doc     Document
	builder *Builder
	tools   domain.ToolLookup
	logger  *zap.Logger
	metrics domain.Metrics

	mu      sync.Mutex
	mounted bool
	current string
}

func NewSynchronizer(doc Document, builder *Builder, tools domain.ToolLookup, logger *zap.Logger, metrics domain.Metrics) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		doc:     doc,
		builder: builder,
		tools:   tools,
		logger:  logger.Named("seo_sync"),
		metrics: metrics,
	}
}

// Mount applies the metadata for the initial route.
func (s *Synchronizer) Mount(path string) domain.PageMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = true
	return s.syncLocked(path)
}

// Navigate applies the metadata for path unless it is already the active
// route. The returned metadata is the one in effect.
func (s *Synchronizer) Navigate(path string) (domain.PageMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted && path == s.current {
		return Resolve(s.builder, s.tools, path), false
	}
	s.mounted = true
	return s.syncLocked(path), true
}

// Sync reapplies the metadata for path unconditionally.
func (s *Synchronizer) Sync(path string) domain.PageMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = true
	return s.syncLocked(path)
}

// Current returns the route last applied.
func (s *Synchronizer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Synchronizer) syncLocked(path string) domain.PageMetadata {
	meta := Resolve(s.builder, s.tools, path)
	Apply(s.doc, meta)
	s.current = path
	matched := meta.ToolPath != ""
	if s.metrics != nil {
		s.metrics.ObserveMetaSync(matched)
	}
	s.logger.Debug("metadata applied", zap.String("path", path), zap.Bool("matched", matched))
	return meta
}

// Resolve looks up the tool registered at exactly path and builds its metadata.
func Resolve(builder *Builder, tools domain.ToolLookup, path string) domain.PageMetadata {
	if tools != nil {
		if tool, ok := tools.ToolByPath(path); ok {
			return builder.Build(&tool, path)
		}
	}
	return builder.Build(nil, path)
}
