package mcpserver

import (
	"time"

	"github.com/MrLipa/oasaggregate/aggregator"
	"github.com/MrLipa/oasaggregate/fetcher"
	"github.com/MrLipa/oasaggregate/internal/cliutil"
	"github.com/MrLipa/oasaggregate/registry"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// RegistryPath is the registry file used when a call names no sources.
	// Empty means the built-in registry.
	RegistryPath string

	// Aggregate tool defaults.
	Concurrency int
	Timeout     time.Duration
	MaxSources  int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASAGGREGATE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		RegistryPath: cliutil.EnvString("OASAGGREGATE_REGISTRY", ""),
		Concurrency:  cliutil.EnvInt("OASAGGREGATE_CONCURRENCY", aggregator.DefaultConcurrency),
		Timeout:      cliutil.EnvDuration("OASAGGREGATE_TIMEOUT", fetcher.DefaultTimeout),
		MaxSources:   cliutil.EnvInt("OASAGGREGATE_MAX_SOURCES", 50),
	}
}

// loadRegistry returns the configured registry.
func (c *serverConfig) loadRegistry() (*registry.Registry, error) {
	if c.RegistryPath == "" {
		return registry.Default(), nil
	}
	return registry.Load(c.RegistryPath)
}
