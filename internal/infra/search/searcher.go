package search

import (
	"sync"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/memo"
)

type Option func(*options)

type options struct {
	filterEmpty bool
	threshold   float64
	limit       int
}

// WithFilterEmpty controls whether an empty query yields no results (true,
// the default) or the full item list.
func WithFilterEmpty(filter bool) Option {
	return func(o *options) {
		o.filterEmpty = filter
	}
}

// WithThreshold sets the Jaro-Winkler similarity required for typo matches.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithLimit caps the number of results.
func WithLimit(limit int) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// Searcher keeps a search index in sync with a changing item list and a
// changing query. The index is rebuilt from scratch on the first read after
// the items change.
type Searcher[T any] struct {
	keys []Key[T]
	opts options

	mu      sync.RWMutex
	data    *memo.Cell[[]T]
	query   *memo.Cell[string]
	index   *memo.Computed[*Index[T]]
	results *memo.Computed[[]T]
}

func NewSearcher[T any](keys []Key[T], opts ...Option) *Searcher[T] {
	o := options{
		filterEmpty: true,
		threshold:   domain.DefaultSearchThreshold,
		limit:       domain.DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Searcher[T]{
		keys:  keys,
		opts:  o,
		query: memo.NewCell(""),
	}
}

// SetData replaces the item list with an owned slice.
func (s *Searcher[T]) SetData(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		s.data.Set(items)
		return
	}
	s.data = memo.NewCell(items)
	data := s.data
	s.bindLocked(data.Get, data)
}

// Bind makes get the item list; the index is rebuilt whenever source changes.
func (s *Searcher[T]) Bind(get func() []T, source memo.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.bindLocked(get, source)
}

func (s *Searcher[T]) bindLocked(get func() []T, source memo.Source) {
	keys, threshold := s.keys, s.opts.threshold
	index := memo.NewComputed(func() *Index[T] {
		return NewIndex(get(), keys, threshold)
	}, source)
	query := s.query
	q := Query{FilterEmpty: s.opts.filterEmpty, Limit: s.opts.limit}
	s.index = index
	s.results = memo.NewComputed(func() []T {
		run := q
		run.Text = query.Get()
		return index.Get().Search(run)
	}, index, query)
}

// SetQuery changes the query that Results answers.
func (s *Searcher[T]) SetQuery(q string) {
	s.query.Set(q)
}

func (s *Searcher[T]) Query() string {
	return s.query.Get()
}

// Results returns the ranked items for the current query and item list.
func (s *Searcher[T]) Results() []T {
	s.mu.RLock()
	results := s.results
	s.mu.RUnlock()
	if results == nil {
		return []T{}
	}
	return results.Get()
}

// Search runs q with the configured options without touching the current
// query.
func (s *Searcher[T]) Search(q string) []T {
	return s.Find(Query{Text: q, FilterEmpty: s.opts.filterEmpty, Limit: s.opts.limit})
}

// Find runs a fully specified query against the current index.
func (s *Searcher[T]) Find(q Query) []T {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if index == nil {
		return []T{}
	}
	return index.Get().Search(q)
}
