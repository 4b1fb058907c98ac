// Package mcpserver exposes catalog search, content suggestions and tool
// metadata as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/search"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
)

const (
	ToolSearch   = "search_tools"
	ToolSuggest  = "suggest_tools"
	ToolDescribe = "describe_tool"
)

// ToolStore is the catalog view the MCP tools read from.
type ToolStore interface {
	domain.ToolLookup
	Search(q search.Query) []domain.Tool
}

// StoreFunc returns the catalog view for locale; an empty or unsupported
// locale selects the default one.
type StoreFunc func(ctx context.Context, locale string) (ToolStore, error)

type Options struct {
	Name    string
	Version string
}

type SearchInput struct {
	Query  string `json:"query" jsonschema:"free text matched against tool names, keywords, descriptions and categories"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results, 0 for no limit"`
	Locale string `json:"locale,omitempty" jsonschema:"locale used for tool names and descriptions"`
}

type SearchOutput struct {
	Tools []domain.Tool `json:"tools"`
}

type SuggestInput struct {
	Content     string `json:"content" jsonschema:"text pasted by the user"`
	ExcludePath string `json:"excludePath,omitempty" jsonschema:"path of the tool currently open, never suggested"`
	Locale      string `json:"locale,omitempty" jsonschema:"locale used for tool descriptions"`
}

type SuggestOutput struct {
	Suggestions []domain.SuggestedTool `json:"suggestions"`
	AutoShow    []domain.SuggestedTool `json:"autoShow"`
}

type DescribeInput struct {
	Path   string `json:"path" jsonschema:"tool path such as /jwt-parser"`
	Locale string `json:"locale,omitempty" jsonschema:"locale used for tool names and descriptions"`
}

type DescribeOutput struct {
	Tool           domain.Tool      `json:"tool"`
	Title          string           `json:"title"`
	CanonicalURL   string           `json:"canonicalUrl"`
	Tags           []domain.MetaTag `json:"tags"`
	StructuredData json.RawMessage  `json:"structuredData,omitempty"`
}

// NewServer builds an MCP server with the catalog tools registered.
func NewServer(stores StoreFunc, suggester *suggest.Suggester, builder *seo.Builder, opts Options, logger *zap.Logger) (*mcp.Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if suggester == nil {
		suggester = suggest.New(suggest.WithLogger(logger))
	}
	if builder == nil {
		builder = seo.NewBuilder(domain.SiteConfig{}, logger)
	}
	if opts.Name == "" {
		opts.Name = "toolsapp"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	h := &handlers{stores: stores, suggester: suggester, builder: builder, logger: logger.Named("mcp")}
	server := mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, &mcp.ServerOptions{
		HasTools: true,
	})

	searchSchema, err := inputSchema[SearchInput]("query")
	if err != nil {
		return nil, err
	}
	if limit := searchSchema.Properties["limit"]; limit != nil {
		zero := 0.0
		limit.Minimum = &zero
	}
	suggestSchema, err := inputSchema[SuggestInput]("content")
	if err != nil {
		return nil, err
	}
	describeSchema, err := inputSchema[DescribeInput]("path")
	if err != nil {
		return nil, err
	}
	describeOutput, err := describeOutputSchema()
	if err != nil {
		return nil, err
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Fuzzy search the developer tools catalog. Tolerates typos.",
		InputSchema: searchSchema,
	}, h.search)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSuggest,
		Description: "Suggest up to two tools for a piece of content such as a JWT, UUID, timestamp or JSON document.",
		InputSchema: suggestSchema,
	}, h.suggest)
	mcp.AddTool(server, &mcp.Tool{
		Name:         ToolDescribe,
		Description:  "Describe the tool registered at a path, with its page metadata.",
		InputSchema:  describeSchema,
		OutputSchema: describeOutput,
	}, h.describe)
	return server, nil
}

// Run serves the tools over stdio until ctx is done.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func inputSchema[T any](required ...string) (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer input schema: %w", err)
	}
	schema.Required = required
	return schema, nil
}

// describeOutputSchema types the raw JSON-LD block as an object; inference
// alone would see a byte slice.
func describeOutputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[DescribeOutput](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[json.RawMessage](): {Type: "object"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("infer output schema: %w", err)
	}
	return schema, nil
}

type handlers struct {
	stores    StoreFunc
	suggester *suggest.Suggester
	builder   *seo.Builder
	logger    *zap.Logger
}

func (h *handlers) search(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if in.Limit < 0 {
		return nil, SearchOutput{}, domain.E(domain.CodeInvalidArgument, ToolSearch, "limit must be >= 0", domain.ErrInvalidRequest)
	}
	store, err := h.stores(ctx, in.Locale)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	tools := store.Search(search.Query{Text: in.Query, FilterEmpty: true, Limit: in.Limit})
	h.logger.Debug("search served", zap.String("query", in.Query), zap.Int("results", len(tools)))
	return nil, SearchOutput{Tools: nonNilTools(tools)}, nil
}

func (h *handlers) suggest(ctx context.Context, _ *mcp.CallToolRequest, in SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	store, err := h.stores(ctx, in.Locale)
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	suggestions := h.suggester.Analyze(in.Content, in.ExcludePath, store)
	return nil, SuggestOutput{
		Suggestions: suggestions,
		AutoShow:    suggest.HighConfidence(suggestions),
	}, nil
}

func (h *handlers) describe(ctx context.Context, _ *mcp.CallToolRequest, in DescribeInput) (*mcp.CallToolResult, DescribeOutput, error) {
	path := strings.TrimSpace(in.Path)
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	store, err := h.stores(ctx, in.Locale)
	if err != nil {
		return nil, DescribeOutput{}, err
	}
	tool, ok := store.ToolByPath(path)
	if !ok {
		return nil, DescribeOutput{}, domain.E(domain.CodeNotFound, ToolDescribe, fmt.Sprintf("no tool at %q", in.Path), domain.ErrToolNotFound)
	}

	meta := h.builder.Build(&tool, path)
	out := DescribeOutput{
		Tool:         tool,
		Title:        meta.Title,
		CanonicalURL: meta.CanonicalURL,
		Tags:         meta.Tags,
	}
	if json.Valid(meta.StructuredData) {
		out.StructuredData = meta.StructuredData
	}
	// The SDK validates structured content through a map, which sorts keys.
	// The text block carries the JSON-LD in its published field order.
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, DescribeOutput{}, fmt.Errorf("encode %s: %w", ToolDescribe, err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}}}, out, nil
}

func nonNilTools(tools []domain.Tool) []domain.Tool {
	if tools == nil {
		return []domain.Tool{}
	}
	return tools
}
