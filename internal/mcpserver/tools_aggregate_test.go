package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrLipa/oasaggregate/internal/testutil"
)

func testConfig() *serverConfig {
	return &serverConfig{Concurrency: 2, Timeout: 5 * time.Second, MaxSources: 5}
}

func TestAggregateTool_Inline(t *testing.T) {
	withConfig(t, testConfig())
	user := testutil.NewServiceServer(t, testutil.UserServiceDoc)
	flight := testutil.NewServiceServer(t, testutil.FlightServiceDoc)

	input := aggregateInput{
		Sources: []sourceInput{
			{Name: "User Service", URL: user.URL + "/v3/api-docs"},
			{Name: "Flight Service", URL: flight.URL + "/v3/api-docs"},
		},
		Title: "Airline API",
	}
	res, output, err := handleAggregate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.NotEmpty(t, output.RunID)
	assert.Equal(t, 2, output.Succeeded)
	assert.Equal(t, 0, output.Failed)
	assert.Equal(t, 2, output.ServerCount)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "Successfully merged User Service", output.Results[0].Detail)
	assert.Equal(t, "Successfully merged Flight Service", output.Results[1].Detail)
	assert.Empty(t, output.WrittenTo)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Document), &doc))
	assert.Equal(t, "Airline API", doc["info"].(map[string]any)["title"])
	assert.Equal(t, "1.0.0", doc["info"].(map[string]any)["version"])
	assert.Contains(t, output.Summary, "Merged 2 of 2 sources")
}

func TestAggregateTool_PartialFailure(t *testing.T) {
	withConfig(t, testConfig())
	user := testutil.NewServiceServer(t, testutil.UserServiceDoc)

	input := aggregateInput{
		Sources: []sourceInput{
			{URL: user.URL + "/v3/api-docs"},
			{Name: "Broken Service", URL: testutil.UnreachableURL(t)},
		},
	}
	res, output, err := handleAggregate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res, "a failed source does not fail the call")

	assert.Equal(t, 1, output.Succeeded)
	assert.Equal(t, 1, output.Failed)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "success", output.Results[0].Outcome)
	assert.NotEmpty(t, output.Results[0].Source, "unnamed source gets a derived name")
	assert.Equal(t, "failure", output.Results[1].Outcome)
	assert.Contains(t, output.Results[1].Detail, "Error fetching/merging Broken Service: ")
	assert.Contains(t, output.Summary, "1 source failed.")
}

func TestAggregateTool_WriteYAML(t *testing.T) {
	withConfig(t, testConfig())
	user := testutil.NewServiceServer(t, testutil.UserServiceDoc)
	out := filepath.Join(t.TempDir(), "docs", "openapi.yaml")

	input := aggregateInput{
		Sources: []sourceInput{{Name: "User Service", URL: user.URL + "/v3/api-docs"}},
		Output:  out,
	}
	res, output, err := handleAggregate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, out, output.WrittenTo)
	assert.Empty(t, output.Document)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.1")
}

func TestAggregateTool_Errors(t *testing.T) {
	withConfig(t, testConfig())

	tests := []struct {
		name  string
		input aggregateInput
	}{
		{
			name: "invalid url",
			input: aggregateInput{Sources: []sourceInput{
				{Name: "Broken", URL: "not a url"},
			}},
		},
		{
			name: "invalid strategy",
			input: aggregateInput{
				Sources:  []sourceInput{{URL: "http://localhost:3001/v3/api-docs"}},
				Strategy: "fail",
			},
		},
		{
			name: "too many sources",
			input: aggregateInput{Sources: make([]sourceInput, 6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleAggregate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}

func TestAggregateTool_DefaultRegistry(t *testing.T) {
	user := testutil.NewServiceServer(t, testutil.UserServiceDoc)
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("info:\n  title: Configured\nsources:\n  - name: User Service\n    url: "+user.URL+"/v3/api-docs\n"), 0o600))

	c := testConfig()
	c.RegistryPath = path
	withConfig(t, c)

	res, output, err := handleAggregate(context.Background(), &mcp.CallToolRequest{}, aggregateInput{})
	require.NoError(t, err)
	require.Nil(t, res)
	assert.Equal(t, 1, output.Succeeded)
	assert.Contains(t, output.Document, `"title": "Configured"`)
}

func TestBuildAggregateSummary(t *testing.T) {
	got := buildAggregateSummary(aggregateOutput{Succeeded: 1, PathCount: 1, OperationCount: 2, ServerCount: 1})
	assert.Equal(t, "Merged 1 of 1 source into a document with 1 path, 2 operations and 1 server.", got)
}
