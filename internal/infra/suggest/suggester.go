// Package suggest recommends tools for pasted content by matching it against
// a table of pattern detectors.
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
)

// Suggester is stateless and safe for concurrent use.
type Suggester struct {
	detectors []Detector
	minLength int
	limit     int
	logger    *zap.Logger
	metrics   domain.Metrics
}

type Option func(*Suggester)

// WithDetectors replaces the built-in detector table.
func WithDetectors(detectors []Detector) Option {
	return func(s *Suggester) {
		s.detectors = detectors
	}
}

func WithLimit(limit int) Option {
	return func(s *Suggester) {
		s.limit = limit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Suggester) {
		if logger != nil {
			s.logger = logger.Named("suggest")
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(s *Suggester) {
		s.metrics = metrics
	}
}

func New(opts ...Option) *Suggester {
	s := &Suggester{
		detectors: DefaultDetectors(),
		minLength: domain.DefaultSuggestionMinLength,
		limit:     domain.DefaultSuggestionLimit,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type match struct {
	detector Detector
	tool     domain.Tool
}

// Analyze returns at most two suggestions for content, strongest first.
// Detectors pointing at excludePath, or at a tool the catalog does not have,
// never fire.
func (s *Suggester) Analyze(content string, excludePath string, tools domain.ToolLookup) []domain.SuggestedTool {
	if utf8.RuneCountInString(content) < s.minLength || tools == nil {
		return []domain.SuggestedTool{}
	}
	trimmed := strings.TrimSpace(content)

	var matches []match
	for _, d := range s.detectors {
		if d.Path == excludePath {
			continue
		}
		if !d.Pattern.MatchString(trimmed) {
			continue
		}
		tool, ok := tools.ToolByPath(d.Path)
		if !ok {
			continue
		}
		matches = append(matches, match{detector: d, tool: tool})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].detector.Confidence.Rank() > matches[j].detector.Confidence.Rank()
	})
	if s.limit > 0 && len(matches) > s.limit {
		matches = matches[:s.limit]
	}

	out := make([]domain.SuggestedTool, 0, len(matches))
	for _, m := range matches {
		if s.metrics != nil {
			s.metrics.ObserveSuggestion(m.detector.Key)
		}
		out = append(out, domain.SuggestedTool{
			Path:        m.detector.Path,
			Name:        m.detector.Name,
			Description: m.tool.Description,
			Reason:      m.detector.Reason,
			Confidence:  m.detector.Confidence,
		})
	}
	if len(out) > 0 {
		s.logger.Debug("content matched detectors", zap.Int("suggestions", len(out)), zap.String("exclude", excludePath))
	}
	return out
}

// HighConfidence filters suggestions down to those worth showing unprompted.
func HighConfidence(suggestions []domain.SuggestedTool) []domain.SuggestedTool {
	out := make([]domain.SuggestedTool, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Confidence == domain.ConfidenceHigh {
			out = append(out, s)
		}
	}
	return out
}
