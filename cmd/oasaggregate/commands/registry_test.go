package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRegistry_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunRegistry(&RegistryFlags{Format: "text"}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Title: Microservices API\nVersion: 1.0.0\n"))
	assert.Contains(t, out, "Sources (6):")
	assert.Contains(t, out, "http://localhost:3006/v3/api-docs")
}

func TestRunRegistry_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunRegistry(&RegistryFlags{Format: "json"}, &buf))

	var got struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Sources []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Microservices API", got.Info.Title)
	require.Len(t, got.Sources, 6)
	assert.Equal(t, "User Service", got.Sources[0].Name)
}

func TestRunRegistry_InvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RunRegistry(&RegistryFlags{Format: "csv"}, &buf))
}

func TestHandleRegistry_UnexpectedArgs(t *testing.T) {
	err := HandleRegistry([]string{"extra"})
	assert.ErrorContains(t, err, "takes no arguments")
}
