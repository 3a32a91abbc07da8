// Package commands provides CLI command handlers for oasaggregate.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/MrLipa/oasaggregate/internal/cliutil"
	"github.com/MrLipa/oasaggregate/registry"
)

// Environment variables that override flag defaults.
const (
	EnvConcurrency = "OASAGGREGATE_CONCURRENCY"
	EnvTimeout     = "OASAGGREGATE_TIMEOUT"
	EnvOutput      = "OASAGGREGATE_OUTPUT"
	EnvRegistry    = "OASAGGREGATE_REGISTRY"
)

// DefaultOutput is where the aggregate is written when -o is not given.
const DefaultOutput = "swagger/openapi.json"

// ValidateOutputFormat validates a format against the allowed set and
// returns an error if it is not one of them.
func ValidateOutputFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %s", format, strings.Join(allowed, ", "))
}

// ParseLogLevel maps a --log-level value to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log-level '%s'. Valid levels: debug, info, warn, error", level)
	}
	return l, nil
}

// NewLogger builds the text logger the CLI writes to w. Quiet mode
// discards everything.
func NewLogger(w io.Writer, level string, quiet bool) (*slog.Logger, error) {
	if quiet {
		return slog.New(slog.DiscardHandler), nil
	}
	l, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// LoadRegistry returns the registry in path, or the built-in registry when
// path is empty.
func LoadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	return registry.Load(path)
}

// OutputStructured writes data to w as indented JSON or as YAML.
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case cliutil.FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case cliutil.FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(out), "\n"))
	return nil
}
