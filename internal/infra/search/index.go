// Package search ranks arbitrary items against a free-text query using a
// subsequence scorer with a Jaro-Winkler fallback for typos.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"github.com/sahilm/fuzzy"
)

const minTypoQueryRunes = 3

// Key extracts searchable strings from an item. Matches on heavier keys rank
// higher.
type Key[T any] struct {
	Name   string
	Weight float64
	Values func(T) []string
}

// Query is a single search request against an Index.
type Query struct {
	Text        string
	FilterEmpty bool
	// Limit caps the result count; zero means unlimited.
	Limit int
}

type entry struct {
	item   int
	weight float64
	text   string
	tokens []string
}

// entries adapts the index to fuzzy.Source.
type entries []entry

func (e entries) String(i int) string { return e[i].text }
func (e entries) Len() int            { return len(e) }

// Index is an immutable search index over a snapshot of items.
type Index[T any] struct {
	items     []T
	entries   entries
	threshold float64
}

// NewIndex indexes items by keys. threshold is the Jaro-Winkler similarity a
// typo match needs; a negative value disables typo matching.
func NewIndex[T any](items []T, keys []Key[T], threshold float64) *Index[T] {
	idx := &Index[T]{
		items:     append([]T(nil), items...),
		threshold: threshold,
	}
	for i, item := range idx.items {
		for _, key := range keys {
			if key.Values == nil {
				continue
			}
			weight := key.Weight
			if weight <= 0 {
				weight = 1
			}
			for _, value := range key.Values(item) {
				text := strings.ToLower(strings.TrimSpace(value))
				if text == "" {
					continue
				}
				idx.entries = append(idx.entries, entry{
					item:   i,
					weight: weight,
					text:   text,
					tokens: tokenize(text),
				})
			}
		}
	}
	return idx
}

// Len reports the number of indexed items.
func (i *Index[T]) Len() int {
	if i == nil {
		return 0
	}
	return len(i.items)
}

// Items returns a copy of the indexed items in their original order.
func (i *Index[T]) Items() []T {
	if i == nil {
		return []T{}
	}
	return append([]T{}, i.items...)
}

// Search runs q against the index. A blank query yields nothing when
// FilterEmpty is set and every item otherwise, ignoring Limit.
func (i *Index[T]) Search(q Query) []T {
	if i == nil {
		return []T{}
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		if q.FilterEmpty {
			return []T{}
		}
		return i.Items()
	}

	best := make(map[int]float64)
	matched := make([]bool, len(i.entries))
	for _, m := range fuzzy.FindFrom(text, i.entries) {
		e := i.entries[m.Index]
		matched[m.Index] = true
		score := e.weight * subsequenceRelevance(m.Score)
		if score > best[e.item] {
			best[e.item] = score
		}
	}

	if i.threshold >= 0 && utf8.RuneCountInString(text) >= minTypoQueryRunes {
		for n, e := range i.entries {
			if matched[n] {
				continue
			}
			sim := similarity(text, e)
			if sim < i.threshold {
				continue
			}
			score := e.weight * sim * 0.5
			if score > best[e.item] {
				best[e.item] = score
			}
		}
	}

	ranked := make([]int, 0, len(best))
	for item := range best {
		ranked = append(ranked, item)
	}
	sort.Slice(ranked, func(a, b int) bool {
		sa, sb := best[ranked[a]], best[ranked[b]]
		if sa != sb {
			return sa > sb
		}
		return ranked[a] < ranked[b]
	})

	out := make([]T, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, i.items[item])
	}
	return applyLimit(out, q.Limit)
}

// subsequenceRelevance maps an unbounded fuzzy score into [0.5, 1.5) so that
// any subsequence match outranks a typo match of the same weight.
func subsequenceRelevance(score int) float64 {
	s := float64(score)
	abs := s
	if abs < 0 {
		abs = -abs
	}
	return 1 + s/(2*(abs+10))
}

func similarity(query string, e entry) float64 {
	best := matchr.JaroWinkler(query, e.text, false)
	for _, token := range e.tokens {
		if s := matchr.JaroWinkler(query, token, false); s > best {
			best = s
		}
	}
	return best
}

func tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 1 && tokens[0] == text {
		return nil
	}
	return tokens
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
