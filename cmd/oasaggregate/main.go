package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MrLipa/oasaggregate"
	"github.com/MrLipa/oasaggregate/cmd/oasaggregate/commands"
	"github.com/MrLipa/oasaggregate/internal/cliutil"
	"github.com/MrLipa/oasaggregate/internal/mcpserver"
)

// validCommands is the list of all commands, used for typo suggestions.
var validCommands = []string{"aggregate", "registry", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasaggregate %s\n", oasaggregate.Version())
		fmt.Printf("commit: %s\n", oasaggregate.Commit())
		fmt.Printf("built: %s\n", oasaggregate.BuildTime())
		fmt.Printf("go: %s\n", oasaggregate.GoVersion())
	case "help", "-h", "--help":
		printUsage()
	case "aggregate":
		if err := commands.HandleAggregate(os.Args[2:]); err != nil {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "registry":
		if err := commands.HandleRegistry(os.Args[2:]); err != nil {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := mcpserver.Run(ctx)
		stop()
		if err != nil {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		cliutil.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			cliutil.Writef(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		cliutil.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	usage := `oasaggregate - merge the OpenAPI documents of a fleet of services into one

Usage:
  oasaggregate <command> [flags]

Commands:
  aggregate   Fetch every registered service document and write the merged document
  registry    Print the resolved service registry
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasaggregate aggregate
  oasaggregate aggregate -c services.yaml -o swagger/openapi.json
  oasaggregate registry --format yaml

Run 'oasaggregate <command> --help' for more information on a command.
`
	fmt.Print(usage)
}
