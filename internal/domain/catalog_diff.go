package domain

import (
	"reflect"
	"sort"
)

// CatalogDiff summarizes changes between catalog states.
type CatalogDiff struct {
	AddedPaths      []string
	RemovedPaths    []string
	UpdatedPaths    []string
	OrderChanged    bool
	MessagesChanged bool
}

// IsEmpty reports whether the diff contains any changes.
func (d CatalogDiff) IsEmpty() bool {
	return len(d.AddedPaths) == 0 &&
		len(d.RemovedPaths) == 0 &&
		len(d.UpdatedPaths) == 0 &&
		!d.OrderChanged &&
		!d.MessagesChanged
}

// DiffCatalogStates computes a diff between two catalog states.
func DiffCatalogStates(prev CatalogState, next CatalogState) CatalogDiff {
	diff := CatalogDiff{}
	diff.MessagesChanged = !reflect.DeepEqual(prev.Catalog.Messages, next.Catalog.Messages) ||
		prev.Catalog.DefaultLocale != next.Catalog.DefaultLocale

	prevTools := indexTools(prev.Catalog.Tools)
	nextTools := indexTools(next.Catalog.Tools)

	for path, prevTool := range prevTools {
		nextTool, ok := nextTools[path]
		if !ok {
			diff.RemovedPaths = append(diff.RemovedPaths, path)
			continue
		}
		if !reflect.DeepEqual(prevTool, nextTool) {
			diff.UpdatedPaths = append(diff.UpdatedPaths, path)
		}
	}
	for path := range nextTools {
		if _, ok := prevTools[path]; !ok {
			diff.AddedPaths = append(diff.AddedPaths, path)
		}
	}

	if len(diff.AddedPaths) == 0 && len(diff.RemovedPaths) == 0 {
		diff.OrderChanged = !pathsEqual(toolPaths(prev.Catalog.Tools), toolPaths(next.Catalog.Tools))
	}

	sort.Strings(diff.AddedPaths)
	sort.Strings(diff.RemovedPaths)
	sort.Strings(diff.UpdatedPaths)

	return diff
}

func indexTools(tools []Tool) map[string]Tool {
	out := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		out[tool.Path] = tool
	}
	return out
}

func toolPaths(tools []Tool) []string {
	out := make([]string, 0, len(tools))
	for _, tool := range tools {
		out = append(out, tool.Path)
	}
	return out
}

func pathsEqual(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
