// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasaggregate as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrLipa/oasaggregate"
)

const serverInstructions = `oasaggregate MCP server: merges the OpenAPI documents of a fleet of services into one document.

Configuration: defaults are configurable via OASAGGREGATE_* environment variables set in your MCP client config.

Key settings:
- OASAGGREGATE_REGISTRY: registry file used when no sources are given (default: built-in registry)
- OASAGGREGATE_CONCURRENCY (default: 4): maximum parallel fetches
- OASAGGREGATE_TIMEOUT (default: 30s): per-source fetch timeout
- OASAGGREGATE_MAX_SOURCES (default: 50): maximum sources per aggregate call

A source that cannot be fetched never fails the call. It is reported as a failure result and contributes nothing to the document.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasaggregate", Version: oasaggregate.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "aggregate",
		Description: "Fetch the OpenAPI document of every service and merge them into one OpenAPI 3.0.1 document. Pass sources as [{name, url}] or omit them to use the configured registry. Later sources win when two define the same path method or component. Unreachable or malformed services are reported per source and skipped. Use output to write the document to a file instead of returning it inline.",
	}, handleAggregate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "registry",
		Description: "Return the configured service registry: the aggregate title and version and the ordered list of service document URLs.",
	}, handleRegistry)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
