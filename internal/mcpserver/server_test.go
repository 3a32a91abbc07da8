package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 paths", formatCount(0, "path"))
	assert.Equal(t, "1 path", formatCount(1, "path"))
	assert.Equal(t, "6 sources", formatCount(6, "source"))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	assert.Equal(t,
		"failed to write output file: open <path>: permission denied",
		sanitizeError(errors.New("failed to write output file: open /home/ci/swagger/openapi.json: permission denied")))
	assert.Equal(t, "fetch error for http://localhost:3001/v3/api-docs",
		sanitizeError(errors.New("fetch error for http://localhost:3001/v3/api-docs")))
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("boom"))
	require.NotNil(t, res)
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", text.Text)
}
