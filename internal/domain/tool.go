package domain

import "strings"

// Tool describes a single utility in the catalog. Path is the stable identity
// and doubles as the routing key of the tool page.
type Tool struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	Category    string   `json:"category"`
	IsNew       bool     `json:"isNew,omitempty"`
}

// ToolCategory groups tools sharing a category name.
type ToolCategory struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Components []Tool `json:"components"`
}

// ToolLookup resolves a catalog entry by its exact path.
type ToolLookup interface {
	ToolByPath(path string) (Tool, bool)
}

// ToolMessageKey returns the localization key of a tool: its path with every
// path separator removed.
func ToolMessageKey(path string) string {
	return strings.ReplaceAll(path, "/", "")
}

// CloneTool returns a deep copy of a tool.
func CloneTool(tool Tool) Tool {
	out := tool
	if tool.Keywords != nil {
		out.Keywords = append([]string(nil), tool.Keywords...)
	}
	return out
}

// CloneTools returns a deep copy of a tool list.
func CloneTools(tools []Tool) []Tool {
	if tools == nil {
		return nil
	}
	out := make([]Tool, len(tools))
	for i, tool := range tools {
		out[i] = CloneTool(tool)
	}
	return out
}
