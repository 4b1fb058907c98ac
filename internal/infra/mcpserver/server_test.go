package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
)

func newTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	catalog := domain.Catalog{
		DefaultLocale: "en",
		Tools: []domain.Tool{
			{Name: "JWT Decoder", Path: "/jwt-parser", Description: "Decode JWT", Keywords: []string{"jwt", "token"}, Category: "Crypto"},
			{Name: "UUID Generator", Path: "/uuid-generator", Description: "Generate UUIDs", Category: "Crypto"},
			{Name: "JSON Formatter", Path: "/json-prettify", Description: "Prettify JSON", Category: "Development"},
		},
		Messages: map[string]domain.Messages{
			"en": {},
			"zh": {"tools.uuid-generator.title": "UUID 生成器"},
		},
	}
	reg := toolstore.NewRegistry(catalog, nil, toolstore.Options{
		Search: domain.SearchConfig{Threshold: domain.DefaultSearchThreshold},
	}, zap.NewNop(), nil)
	stores := func(ctx context.Context, locale string) (ToolStore, error) {
		store, err := reg.Store(ctx, "", locale)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	server, err := NewServer(stores, nil, nil, Options{}, zap.NewNop())
	require.NoError(t, err)

	ct, st := mcp.NewInMemoryTransports()
	_, err = server.Connect(ctx, st, nil)
	require.NoError(t, err)
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool[T any](t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (T, *mcp.CallToolResult) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	var out T
	if res.IsError {
		return out, res
	}
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out, res
}

func TestServer_ListTools(t *testing.T) {
	session := newTestSession(t)
	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{ToolSearch, ToolSuggest, ToolDescribe}, names)
}

func TestServer_SearchTools(t *testing.T) {
	session := newTestSession(t)

	out, _ := callTool[SearchOutput](t, session, ToolSearch, map[string]any{"query": "uuid"})
	require.NotEmpty(t, out.Tools)
	require.Equal(t, "/uuid-generator", out.Tools[0].Path)

	out, _ = callTool[SearchOutput](t, session, ToolSearch, map[string]any{"query": "uuid", "locale": "zh"})
	require.Equal(t, "UUID 生成器", out.Tools[0].Name)

	out, _ = callTool[SearchOutput](t, session, ToolSearch, map[string]any{"query": "uuid", "locale": "zh-Hans"})
	require.Equal(t, "UUID 生成器", out.Tools[0].Name)

	// Unsupported locales fall back to the default catalog.
	out, _ = callTool[SearchOutput](t, session, ToolSearch, map[string]any{"query": "uuid", "locale": "xx"})
	require.Equal(t, "UUID Generator", out.Tools[0].Name)

	out, _ = callTool[SearchOutput](t, session, ToolSearch, map[string]any{"query": ""})
	require.Empty(t, out.Tools)
}

func TestServer_SuggestTools(t *testing.T) {
	session := newTestSession(t)

	out, _ := callTool[SuggestOutput](t, session, ToolSuggest, map[string]any{
		"content": "550e8400-e29b-41d4-a716-446655440000",
	})
	require.Len(t, out.Suggestions, 1)
	require.Equal(t, "/uuid-generator", out.Suggestions[0].Path)
	require.Equal(t, "Generate UUIDs", out.Suggestions[0].Description)
	require.Len(t, out.AutoShow, 1)

	out, _ = callTool[SuggestOutput](t, session, ToolSuggest, map[string]any{
		"content":     "550e8400-e29b-41d4-a716-446655440000",
		"excludePath": "/uuid-generator",
	})
	require.Empty(t, out.Suggestions)
}

func TestServer_DescribeTool(t *testing.T) {
	session := newTestSession(t)

	out, _ := callTool[DescribeOutput](t, session, ToolDescribe, map[string]any{"path": "jwt-parser"})
	require.Equal(t, "JWT Decoder", out.Tool.Name)
	require.Equal(t, "JWT Decoder - "+domain.DefaultSiteName, out.Title)
	require.Equal(t, domain.DefaultSiteBaseURL+"/jwt-parser", out.CanonicalURL)
	require.True(t, strings.HasPrefix(string(out.StructuredData), `{"@context":"https://schema.org","@type":"SoftwareApplication","name":"JWT Decoder",`), string(out.StructuredData))

	_, res := callTool[DescribeOutput](t, session, ToolDescribe, map[string]any{"path": "/missing"})
	require.True(t, res.IsError)
}
