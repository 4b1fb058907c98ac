package suggest

import (
	"sync"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/memo"
)

// Session holds the latest analysis for one page. Suggestions and AutoShow
// are views over the same stored result.
type Session struct {
	suggester *Suggester
	tools     domain.ToolLookup

	mu          sync.Mutex
	currentPath string
	result      *memo.Cell[[]domain.SuggestedTool]
	autoShow    *memo.Computed[[]domain.SuggestedTool]
}

func NewSession(suggester *Suggester, tools domain.ToolLookup) *Session {
	if suggester == nil {
		suggester = New()
	}
	result := memo.NewCell([]domain.SuggestedTool{})
	return &Session{
		suggester: suggester,
		tools:     tools,
		result:    result,
		autoShow: memo.NewComputed(func() []domain.SuggestedTool {
			return HighConfidence(result.Get())
		}, result),
	}
}

// SetCurrentPath records the page the user is on; its tool is never suggested.
func (s *Session) SetCurrentPath(path string) {
	s.mu.Lock()
	s.currentPath = path
	s.mu.Unlock()
}

func (s *Session) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// Analyze replaces the stored suggestions with those for content. Short
// content clears them.
func (s *Session) Analyze(content string) []domain.SuggestedTool {
	suggestions := s.suggester.Analyze(content, s.CurrentPath(), s.tools)
	s.result.Set(suggestions)
	return suggestions
}

func (s *Session) Suggestions() []domain.SuggestedTool {
	return s.result.Get()
}

// AutoShow returns only the high-confidence suggestions.
func (s *Session) AutoShow() []domain.SuggestedTool {
	return s.autoShow.Get()
}

func (s *Session) Clear() {
	s.result.Set([]domain.SuggestedTool{})
}
