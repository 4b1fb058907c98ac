package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"toolsapp/internal/domain"
)

var stdout io.Writer = os.Stdout

func writeJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func printTools(tools []domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		if tools == nil {
			tools = []domain.Tool{}
		}
		return writeJSON(tools)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, tool := range tools {
		marker := ""
		if tool.IsNew {
			marker = "new"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tool.Path, tool.Name, tool.Category, marker)
	}
	return tw.Flush()
}

func printCategories(groups []domain.ToolCategory, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(groups)
	}
	for _, group := range groups {
		fmt.Fprintf(stdout, "%s (%d)\n", group.Name, len(group.Components))
		for _, tool := range group.Components {
			fmt.Fprintf(stdout, "  %s\t%s\n", tool.Path, tool.Name)
		}
	}
	return nil
}

func printSuggestions(suggestions, autoShow []domain.SuggestedTool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(map[string]any{
			"suggestions": suggestions,
			"autoShow":    autoShow,
		})
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(stdout, "no suggestions")
		return nil
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Confidence, s.Path, s.Name, s.Reason)
	}
	return tw.Flush()
}

func printMeta(meta domain.PageMetadata, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(meta)
	}
	fmt.Fprintf(stdout, "title: %s\n", meta.Title)
	fmt.Fprintf(stdout, "canonical: %s\n", meta.CanonicalURL)
	for _, tag := range meta.Tags {
		fmt.Fprintf(stdout, "%s=%q: %s\n", tag.Attr, tag.Key, tag.Content)
	}
	if len(meta.StructuredData) > 0 {
		fmt.Fprintf(stdout, "structured data: %s\n", meta.StructuredData)
	}
	return nil
}

func printFavorites(profile string, entries []string, tools []domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(map[string]any{
			"profile": profile,
			"entries": entries,
			"tools":   tools,
		})
	}
	fmt.Fprintf(stdout, "profile=%s favorites=%d\n", profile, len(entries))
	return printTools(tools, false)
}
