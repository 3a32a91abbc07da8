package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrLipa/oasaggregate"
	"github.com/MrLipa/oasaggregate/aggregator"
	"github.com/MrLipa/oasaggregate/fetcher"
	"github.com/MrLipa/oasaggregate/internal/cliutil"
	"github.com/MrLipa/oasaggregate/registry"
)

type sourceInput struct {
	Name string `json:"name,omitempty" jsonschema:"Display name used in results and server descriptions. Derived from the URL host if omitted."`
	URL  string `json:"url"            jsonschema:"Absolute http(s) URL of the service's OpenAPI JSON document"`
}

type aggregateInput struct {
	Sources     []sourceInput `json:"sources,omitempty"     jsonschema:"Services to merge in order. Omit to use the configured registry."`
	Title       string        `json:"title,omitempty"       jsonschema:"Title of the merged document"`
	Version     string        `json:"version,omitempty"     jsonschema:"Version of the merged document"`
	Concurrency int           `json:"concurrency,omitempty" jsonschema:"Maximum parallel fetches (default from OASAGGREGATE_CONCURRENCY)"`
	Strategy    string        `json:"strategy,omitempty"    jsonschema:"Collision strategy: accept-right (default, later sources win) or accept-left"`
	Output      string        `json:"output,omitempty"      jsonschema:"File path to write the merged document. .yaml or .yml writes YAML. If omitted the document is returned inline as JSON."`
}

type sourceResult struct {
	Source     string `json:"source"`
	URL        string `json:"url"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail"`
	Collisions int    `json:"collisions,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type aggregateOutput struct {
	RunID          string         `json:"run_id"`
	Results        []sourceResult `json:"results"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	PathCount      int            `json:"path_count"`
	OperationCount int            `json:"operation_count"`
	ComponentCount int            `json:"component_count"`
	ServerCount    int            `json:"server_count"`
	WrittenTo      string         `json:"written_to,omitempty"`
	Document       string         `json:"document,omitempty"`
	Summary        string         `json:"summary"`
}

// resolve returns the registry a call aggregates: the input sources when
// given, otherwise the configured registry. Title and version override the
// registry header either way.
func (in aggregateInput) resolve() (*registry.Registry, error) {
	var reg *registry.Registry
	if len(in.Sources) == 0 {
		r, err := cfg.loadRegistry()
		if err != nil {
			return nil, err
		}
		reg = r
	} else {
		reg = &registry.Registry{Info: registry.DefaultInfo}
		for _, s := range in.Sources {
			reg.Sources = append(reg.Sources, registry.SourceEntry{Name: s.Name, URL: s.URL})
		}
		reg.ApplyNames()
	}

	if in.Title != "" {
		reg.Info.Title = in.Title
	}
	if in.Version != "" {
		reg.Info.Version = in.Version
	}
	return reg, nil
}

func handleAggregate(ctx context.Context, _ *mcp.CallToolRequest, input aggregateInput) (*mcp.CallToolResult, aggregateOutput, error) {
	if len(input.Sources) > cfg.MaxSources {
		return errResult(fmt.Errorf("too many sources: got %d, maximum is %d; set OASAGGREGATE_MAX_SOURCES to increase",
			len(input.Sources), cfg.MaxSources)), aggregateOutput{}, nil
	}
	if input.Strategy == "" {
		input.Strategy = string(aggregator.StrategyAcceptRight)
	}
	if !aggregator.IsValidStrategy(input.Strategy) {
		return errResult(fmt.Errorf("invalid strategy: %q; valid values: %s", input.Strategy, strings.Join(aggregator.ValidStrategies(), ", "))), aggregateOutput{}, nil
	}
	if input.Concurrency <= 0 {
		input.Concurrency = cfg.Concurrency
	}

	reg, err := input.resolve()
	if err != nil {
		return errResult(err), aggregateOutput{}, nil
	}

	logger := oasaggregate.NewSlogAdapter(slog.Default())
	f := fetcher.New()
	f.Timeout = cfg.Timeout
	f.Logger = logger

	agg := aggregator.New(
		aggregator.WithFetcher(f),
		aggregator.WithLogger(logger),
		aggregator.WithConcurrency(input.Concurrency),
		aggregator.WithStrategy(aggregator.CollisionStrategy(input.Strategy)),
	)
	report, err := agg.ProcessAll(ctx, reg.Info, reg.Entries())
	if err != nil {
		return errResult(err), aggregateOutput{}, nil
	}

	output := aggregateOutput{
		RunID:          report.RunID,
		Results:        makeSlice[sourceResult](len(report.Results)),
		Succeeded:      report.Succeeded,
		Failed:         report.Failed,
		PathCount:      report.Stats.PathCount,
		OperationCount: report.Stats.OperationCount,
		ComponentCount: report.Stats.ComponentCount,
		ServerCount:    report.Stats.ServerCount,
	}
	for _, r := range report.Results {
		output.Results = append(output.Results, sourceResult{
			Source:     r.Source,
			URL:        r.URL,
			Outcome:    string(r.Outcome),
			Detail:     r.Detail,
			Collisions: r.Collisions,
			DurationMS: r.Duration.Milliseconds(),
		})
	}
	output.Summary = buildAggregateSummary(output)

	format := cliutil.FormatJSON
	if ext := strings.ToLower(filepath.Ext(input.Output)); ext == ".yaml" || ext == ".yml" {
		format = cliutil.FormatYAML
	}
	data, err := cliutil.EncodeAggregate(report.Document, format)
	if err != nil {
		return errResult(err), aggregateOutput{}, nil
	}

	if input.Output != "" {
		cleanPath, pathErr := cliutil.SanitizeOutputPath(input.Output)
		if pathErr != nil {
			return errResult(fmt.Errorf("invalid output path: %w", pathErr)), aggregateOutput{}, nil
		}
		if err := cliutil.WriteFileAtomic(cleanPath, data, 0o644); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), aggregateOutput{}, nil
		}
		output.WrittenTo = cleanPath
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}

func buildAggregateSummary(output aggregateOutput) string {
	total := output.Succeeded + output.Failed
	summary := fmt.Sprintf("Merged %d of %s into a document", output.Succeeded, formatCount(total, "source"))
	summary += " with " + formatCount(output.PathCount, "path")
	summary += ", " + formatCount(output.OperationCount, "operation")
	summary += " and " + formatCount(output.ServerCount, "server") + "."
	if output.Failed > 0 {
		summary += " " + formatCount(output.Failed, "source") + " failed."
	}
	return summary
}
