// Package toolstore exposes the tool catalog localized, grouped and flagged
// with the favorites of one profile.
package toolstore

import (
	"strings"
	"time"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/memo"
	"toolsapp/internal/infra/search"
)

// SearchKeys weigh tool fields for catalog search.
var SearchKeys = []search.Key[domain.Tool]{
	{Name: "name", Weight: 3, Values: func(t domain.Tool) []string { return []string{t.Name} }},
	{Name: "keywords", Weight: 2, Values: func(t domain.Tool) []string { return t.Keywords }},
	{Name: "description", Weight: 1, Values: func(t domain.Tool) []string { return []string{t.Description} }},
	{Name: "category", Weight: 1, Values: func(t domain.Tool) []string { return []string{t.Category} }},
}

// Store is the view of the catalog for one profile and locale. All accessors
// are cached and recomputed on the first read after the catalog, the locale
// or the favorites change.
type Store struct {
	catalog   *memo.Cell[domain.Catalog]
	locale    *memo.Cell[string]
	favorites *Favorites
	metrics   domain.Metrics

	tools         *memo.Computed[[]domain.Tool]
	byPath        *memo.Computed[map[string]domain.Tool]
	byCategory    *memo.Computed[[]domain.ToolCategory]
	favoriteTools *memo.Computed[[]domain.Tool]
	newTools      *memo.Computed[[]domain.Tool]
	searcher      *search.Searcher[domain.Tool]
}

func newStore(catalog *memo.Cell[domain.Catalog], locale string, favorites *Favorites, searchCfg domain.SearchConfig, metrics domain.Metrics) *Store {
	s := &Store{
		catalog:   catalog,
		locale:    memo.NewCell(locale),
		favorites: favorites,
		metrics:   metrics,
	}

	s.tools = memo.NewComputed(func() []domain.Tool {
		return localizeTools(s.catalog.Get(), s.locale.Get())
	}, s.catalog, s.locale)

	s.byPath = memo.NewComputed(func() map[string]domain.Tool {
		tools := s.tools.Get()
		out := make(map[string]domain.Tool, len(tools))
		for _, tool := range tools {
			out[tool.Path] = tool
		}
		return out
	}, s.tools)

	s.byCategory = memo.NewComputed(func() []domain.ToolCategory {
		return groupByCategory(s.tools.Get())
	}, s.tools)

	s.favoriteTools = memo.NewComputed(func() []domain.Tool {
		var out []domain.Tool
		for _, tool := range s.tools.Get() {
			if s.favorites.contains(tool) {
				out = append(out, tool)
			}
		}
		return nonNil(out)
	}, s.tools, s.favorites)

	s.newTools = memo.NewComputed(func() []domain.Tool {
		var out []domain.Tool
		for _, tool := range s.tools.Get() {
			if tool.IsNew {
				out = append(out, tool)
			}
		}
		return nonNil(out)
	}, s.tools)

	s.searcher = search.NewSearcher(SearchKeys,
		search.WithThreshold(searchCfg.Threshold),
		search.WithLimit(searchCfg.Limit),
	)
	s.searcher.Bind(s.tools.Get, s.tools)
	return s
}

func (s *Store) Profile() string {
	return s.favorites.Profile()
}

func (s *Store) Locale() string {
	return s.locale.Get()
}

// SetLocale switches the display language of every accessor.
func (s *Store) SetLocale(locale string) {
	if s.locale.Get() == locale {
		return
	}
	s.locale.Set(locale)
}

// Tools returns the localized catalog in catalog order.
func (s *Store) Tools() []domain.Tool {
	return domain.CloneTools(s.tools.Get())
}

// ToolByPath returns the localized tool registered at exactly path.
func (s *Store) ToolByPath(path string) (domain.Tool, bool) {
	tool, ok := s.byPath.Get()[path]
	if !ok {
		return domain.Tool{}, false
	}
	return domain.CloneTool(tool), true
}

// ToolsByCategory groups the localized tools by category in first-seen order.
func (s *Store) ToolsByCategory() []domain.ToolCategory {
	groups := s.byCategory.Get()
	out := make([]domain.ToolCategory, len(groups))
	for i, g := range groups {
		out[i] = domain.ToolCategory{Name: g.Name, Path: g.Path, Components: domain.CloneTools(g.Components)}
	}
	return out
}

// FavoriteTools returns the tools whose name or path is in the favorites,
// in catalog order.
func (s *Store) FavoriteTools() []domain.Tool {
	return domain.CloneTools(s.favoriteTools.Get())
}

// FavoriteEntries returns the raw favorite entries in stored order.
func (s *Store) FavoriteEntries() []string {
	return s.favorites.Entries()
}

func (s *Store) NewTools() []domain.Tool {
	return domain.CloneTools(s.newTools.Get())
}

// AddToolToFavorites appends the tool's path unless it is already present.
func (s *Store) AddToolToFavorites(tool domain.Tool) {
	s.favorites.add(tool.Path)
}

// RemoveToolFromFavorites drops every entry equal to the tool's name or path.
func (s *Store) RemoveToolFromFavorites(tool domain.Tool) {
	s.favorites.remove(tool)
}

func (s *Store) IsToolFavorite(tool domain.Tool) bool {
	return s.favorites.contains(tool)
}

// UpdateFavoriteTools replaces the favorites with the paths of tools, in order.
func (s *Store) UpdateFavoriteTools(tools []domain.Tool) {
	paths := make([]string, 0, len(tools))
	for _, tool := range tools {
		paths = append(paths, tool.Path)
	}
	s.favorites.replace(paths)
}

// Search ranks the localized tools against q.
func (s *Store) Search(q search.Query) []domain.Tool {
	start := time.Now()
	results := s.searcher.Find(q)
	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start), len(results))
	}
	return domain.CloneTools(results)
}

// SearchText runs q with the default options.
func (s *Store) SearchText(q string) []domain.Tool {
	start := time.Now()
	results := s.searcher.Search(q)
	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start), len(results))
	}
	return domain.CloneTools(results)
}

func localizeTools(catalog domain.Catalog, locale string) []domain.Tool {
	out := make([]domain.Tool, 0, len(catalog.Tools))
	for _, tool := range catalog.Tools {
		key := domain.ToolMessageKey(tool.Path)
		localized := domain.CloneTool(tool)
		localized.Name = catalog.Translate(locale, "tools."+key+".title", tool.Name)
		localized.Description = catalog.Translate(locale, "tools."+key+".description", tool.Description)
		localized.Category = catalog.Translate(locale, "tools.categories."+strings.ToLower(tool.Category), tool.Category)
		out = append(out, localized)
	}
	return out
}

func groupByCategory(tools []domain.Tool) []domain.ToolCategory {
	index := make(map[string]int)
	out := []domain.ToolCategory{}
	for _, tool := range tools {
		i, ok := index[tool.Category]
		if !ok {
			i = len(out)
			index[tool.Category] = i
			out = append(out, domain.ToolCategory{
				Name: tool.Category,
				Path: strings.ToLower(tool.Category),
			})
		}
		out[i].Components = append(out[i].Components, tool)
	}
	return out
}

func nonNil(tools []domain.Tool) []domain.Tool {
	if tools == nil {
		return []domain.Tool{}
	}
	return tools
}
