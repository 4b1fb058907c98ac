package toolstore

import (
	"slices"

	"toolsapp/internal/domain"
)

// migrateLegacyEntries rewrites entries that name exactly one catalog tool to
// that tool's path. Names are matched against the built-in name and every
// localized title. Ambiguous or unknown entries are kept verbatim so the
// name-or-path matching still sees them.
func migrateLegacyEntries(entries []string, catalog domain.Catalog) ([]string, bool) {
	paths := make(map[string]struct{}, len(catalog.Tools))
	byName := make(map[string][]string)
	addName := func(name, path string) {
		if name == "" || slices.Contains(byName[name], path) {
			return
		}
		byName[name] = append(byName[name], path)
	}
	for _, tool := range catalog.Tools {
		paths[tool.Path] = struct{}{}
		addName(tool.Name, tool.Path)
		key := "tools." + domain.ToolMessageKey(tool.Path) + ".title"
		for _, bundle := range catalog.Messages {
			addName(bundle[key], tool.Path)
		}
	}

	out := make([]string, 0, len(entries))
	changed := false
	for _, entry := range entries {
		next := entry
		if _, isPath := paths[entry]; !isPath {
			if candidates := byName[entry]; len(candidates) == 1 {
				next = candidates[0]
				changed = true
			}
		}
		if slices.Contains(out, next) {
			changed = true
			continue
		}
		out = append(out, next)
	}
	return out, changed
}
