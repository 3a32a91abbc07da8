package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrLipa/oasaggregate/internal/testutil"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasaggregate-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.InputSchema)
	}
	slices.Sort(names)
	assert.Equal(t, []string{"aggregate", "registry"}, names)
}

func TestIntegration_CallTool_Registry(t *testing.T) {
	withConfig(t, &serverConfig{Concurrency: 1, Timeout: time.Second, MaxSources: 5})
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "registry",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "Microservices API", structured["title"])
	assert.EqualValues(t, 6, structured["source_count"])
}

func TestIntegration_CallTool_Aggregate(t *testing.T) {
	withConfig(t, &serverConfig{Concurrency: 2, Timeout: 5 * time.Second, MaxSources: 5})
	session := startTestSession(t)
	user := testutil.NewServiceServer(t, testutil.UserServiceDoc)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "aggregate",
		Arguments: map[string]any{
			"sources": []any{
				map[string]any{"name": "User Service", "url": user.URL + "/v3/api-docs"},
				map[string]any{"name": "Gone Service", "url": testutil.UnreachableURL(t)},
			},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "partial failure still succeeds")

	structured := unmarshalStructured(t, result)
	assert.EqualValues(t, 1, structured["succeeded"])
	assert.EqualValues(t, 1, structured["failed"])
	results, ok := structured["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "User Service", results[0].(map[string]any)["source"])
	assert.Equal(t, "Gone Service", results[1].(map[string]any)["source"])
}

func TestIntegration_CallTool_AggregateConfigError(t *testing.T) {
	withConfig(t, &serverConfig{Concurrency: 1, Timeout: time.Second, MaxSources: 5})
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "aggregate",
		Arguments: map[string]any{
			"sources": []any{map[string]any{"name": "Broken", "url": "ftp://example.com/api"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
