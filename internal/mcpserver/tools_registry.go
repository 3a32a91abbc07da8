package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrLipa/oasaggregate/registry"
)

type registryInput struct{}

type registryOutput struct {
	Title       string                 `json:"title"`
	Version     string                 `json:"version"`
	SourceCount int                    `json:"source_count"`
	Sources     []registry.SourceEntry `json:"sources"`
}

func handleRegistry(_ context.Context, _ *mcp.CallToolRequest, _ registryInput) (*mcp.CallToolResult, registryOutput, error) {
	reg, err := cfg.loadRegistry()
	if err != nil {
		return errResult(err), registryOutput{}, nil
	}
	return nil, registryOutput{
		Title:       reg.Info.Title,
		Version:     reg.Info.Version,
		SourceCount: len(reg.Sources),
		Sources:     reg.Entries(),
	}, nil
}
