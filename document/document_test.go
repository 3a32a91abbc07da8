package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestNewAggregate(t *testing.T) {
	a := NewAggregate(Info{Title: "Microservices API", Version: "1.0.0"})

	assert.Equal(t, "3.0.1", a.OpenAPI)
	assert.Empty(t, a.Servers)
	assert.Empty(t, a.Paths)
	assert.Empty(t, a.Components)

	data, err := a.MarshalIndent()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"openapi": "3.0.1",
		"info": {"title": "Microservices API", "version": "1.0.0"},
		"servers": [],
		"paths": {},
		"components": {}
	}`, string(data))
}

func TestAggregate_HasServer(t *testing.T) {
	a := NewAggregate(Info{})
	a.Servers = append(a.Servers, Server{URL: "http://h1", Description: "Generated server url for A"})

	assert.True(t, a.HasServer("http://h1"))
	assert.False(t, a.HasServer("http://h2"))
	assert.False(t, a.HasServer("http://h1/"))
}

func TestAggregate_Stats(t *testing.T) {
	a := NewAggregate(Info{})
	a.Servers = []Server{{URL: "http://h1"}, {URL: "http://h2"}}
	a.Paths["/users"] = PathItem{"get": map[string]any{}, "post": map[string]any{}, "parameters": []any{}}
	a.Paths["/flights"] = PathItem{"get": map[string]any{}, "x-internal": true}
	a.Components["schemas"] = map[string]any{"User": map[string]any{}, "Flight": map[string]any{}}
	a.Components["securitySchemes"] = map[string]any{"bearerAuth": map[string]any{}}

	assert.Equal(t, Stats{PathCount: 2, OperationCount: 3, ComponentCount: 3, ServerCount: 2}, a.Stats())
}

func TestAggregate_MarshalYAMLBytes(t *testing.T) {
	a := NewAggregate(Info{Title: "T", Version: "1"})
	a.Paths["/a"] = PathItem{"get": map[string]any{"summary": "list"}}

	data, err := a.MarshalYAMLBytes()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "3.0.1", back["openapi"])
	assert.Contains(t, back["paths"], "/a")
}

func TestParseSource_JSON(t *testing.T) {
	body := `{
		"openapi": "3.0.1",
		"info": {"title": "User Service", "version": "v0"},
		"paths": {"/users": {"get": {"operationId": "getUsers"}}},
		"components": {"schemas": {"User": {"type": "object"}}}
	}`

	src, err := ParseSource([]byte(body), FormatJSON)
	require.NoError(t, err)

	require.Contains(t, src.Paths, "/users")
	assert.Equal(t, map[string]any{"operationId": "getUsers"}, src.Paths["/users"]["get"])
	require.Contains(t, src.Components, "schemas")
	assert.Contains(t, src.Components["schemas"], "User")
}

func TestParseSource_NoComponents(t *testing.T) {
	for _, body := range []string{`{"paths": {}}`, `{"paths": {}, "components": null}`} {
		src, err := ParseSource([]byte(body), FormatJSON)
		require.NoError(t, err)
		assert.Empty(t, src.Paths)
		assert.Nil(t, src.Components)
	}
}

func TestParseSource_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		errorContains string
	}{
		{"empty body", "  ", "empty document"},
		{"invalid json", `{"paths": `, "invalid json"},
		{"html error page", `<html>502</html>`, "invalid json"},
		{"json array", `[1, 2]`, "invalid json"},
		{"json null", `null`, "not an object"},
		{"missing paths", `{"openapi": "3.0.1"}`, "at paths: missing required object"},
		{"null paths", `{"paths": null}`, "at paths: missing required object"},
		{"paths is array", `{"paths": []}`, "at paths: expected object, got array"},
		{"path item is string", `{"paths": {"/a": "x"}}`, "at paths./a: expected path item object, got string"},
		{"components is array", `{"paths": {}, "components": []}`, "at components: expected object, got array"},
		{"category is number", `{"paths": {}, "components": {"schemas": 1}}`, "at components.schemas: expected object, got number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource([]byte(tt.body), FormatJSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestParseSource_YAML(t *testing.T) {
	body := `
openapi: 3.0.1
paths:
  /airports:
    get:
      responses:
        200:
          description: OK
components:
  schemas:
    Airport:
      type: object
`
	src, err := ParseSource([]byte(body), FormatYAML)
	require.NoError(t, err)
	require.Contains(t, src.Paths, "/airports")

	// Integer response keys must come out JSON-encodable.
	a := NewAggregate(Info{})
	a.Paths = src.Paths
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"200":{"description":"OK"}`)
}
