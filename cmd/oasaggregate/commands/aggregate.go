package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/MrLipa/oasaggregate"
	"github.com/MrLipa/oasaggregate/aggregator"
	"github.com/MrLipa/oasaggregate/fetcher"
	"github.com/MrLipa/oasaggregate/internal/cliutil"
	"github.com/MrLipa/oasaggregate/internal/metrics"
)

// ErrSourcesFailed is returned in strict mode when any source failed.
var ErrSourcesFailed = errors.New("one or more sources failed")

// AggregateFlags contains flags for the aggregate command
type AggregateFlags struct {
	Config      string
	Output      string
	Format      string
	Strategy    string
	Concurrency int
	Timeout     time.Duration
	MetricsFile string
	LogLevel    string
	Insecure    bool
	Quiet       bool
	Strict      bool
}

// SetupAggregateFlags creates and configures a FlagSet for the aggregate command.
// Returns the FlagSet and an AggregateFlags struct with bound flag variables.
// Defaults honor the OASAGGREGATE_* environment variables.
func SetupAggregateFlags() (*flag.FlagSet, *AggregateFlags) {
	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	flags := &AggregateFlags{}

	config := cliutil.EnvString(EnvRegistry, "")
	output := cliutil.EnvString(EnvOutput, DefaultOutput)

	fs.StringVar(&flags.Config, "c", config, "registry file (default: built-in registry)")
	fs.StringVar(&flags.Config, "config", config, "registry file (default: built-in registry)")
	fs.StringVar(&flags.Output, "o", output, "output file path, - for stdout")
	fs.StringVar(&flags.Output, "output", output, "output file path, - for stdout")
	fs.StringVar(&flags.Format, "format", cliutil.FormatJSON, "output format (json, yaml)")
	fs.StringVar(&flags.Strategy, "strategy", string(aggregator.StrategyAcceptRight), "collision strategy (accept-right, accept-left)")
	fs.IntVar(&flags.Concurrency, "concurrency", cliutil.EnvInt(EnvConcurrency, aggregator.DefaultConcurrency), "maximum parallel fetches")
	fs.DurationVar(&flags.Timeout, "timeout", cliutil.EnvDuration(EnvTimeout, fetcher.DefaultTimeout), "per-source fetch timeout")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.StringVar(&flags.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.BoolVar(&flags.Insecure, "insecure", false, "skip TLS certificate verification")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress logs and per-source results")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress logs and per-source results")
	fs.BoolVar(&flags.Strict, "strict", false, "exit with an error if any source failed")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasaggregate aggregate [flags]\n\n")
		cliutil.Writef(fs.Output(), "Fetch the OpenAPI document of every registered service and merge them\n")
		cliutil.Writef(fs.Output(), "into one document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  %s  default for --config\n", EnvRegistry)
		cliutil.Writef(fs.Output(), "  %s    default for --output\n", EnvOutput)
		cliutil.Writef(fs.Output(), "  %s  default for --concurrency\n", EnvConcurrency)
		cliutil.Writef(fs.Output(), "  %s   default for --timeout\n", EnvTimeout)
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasaggregate aggregate\n")
		cliutil.Writef(fs.Output(), "  oasaggregate aggregate -c services.yaml -o docs/openapi.yaml --format yaml\n")
		cliutil.Writef(fs.Output(), "  oasaggregate aggregate -q -o - | jq '.paths | keys'\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - A source that cannot be fetched is reported and skipped\n")
		cliutil.Writef(fs.Output(), "  - Later sources win when two sources define the same path method or component\n")
	}

	return fs, flags
}

// HandleAggregate executes the aggregate command
func HandleAggregate(args []string) error {
	fs, flags := SetupAggregateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("aggregate command takes no arguments, got %d", fs.NArg())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return RunAggregate(ctx, flags, os.Stdout, os.Stderr)
}

// RunAggregate runs one aggregation with already-parsed flags. Results and
// the output path go to stdout, or to stderr when the document itself is
// written to stdout.
func RunAggregate(ctx context.Context, flags *AggregateFlags, stdout, stderr io.Writer) error {
	if err := ValidateOutputFormat(flags.Format, cliutil.FormatJSON, cliutil.FormatYAML); err != nil {
		return err
	}
	if !aggregator.IsValidStrategy(flags.Strategy) {
		return fmt.Errorf("invalid strategy '%s'. Valid strategies: %v", flags.Strategy, aggregator.ValidStrategies())
	}
	if flags.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", flags.Concurrency)
	}
	if flags.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", flags.Timeout)
	}

	slogger, err := NewLogger(stderr, flags.LogLevel, flags.Quiet)
	if err != nil {
		return err
	}
	logger := oasaggregate.NewSlogAdapter(slogger)

	reg, err := LoadRegistry(flags.Config)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	outputPath := flags.Output
	if outputPath != cliutil.StdoutPath {
		if outputPath, err = cliutil.SanitizeOutputPath(outputPath); err != nil {
			return err
		}
	}

	f := fetcher.New()
	f.Timeout = flags.Timeout
	f.InsecureSkipVerify = flags.Insecure
	f.Logger = logger

	recorder := metrics.New()
	agg := aggregator.New(
		aggregator.WithFetcher(f),
		aggregator.WithLogger(logger),
		aggregator.WithConcurrency(flags.Concurrency),
		aggregator.WithStrategy(aggregator.CollisionStrategy(flags.Strategy)),
		aggregator.WithMetrics(recorder),
	)

	report, err := agg.ProcessAll(ctx, reg.Info, reg.Entries())
	if err != nil {
		return fmt.Errorf("aggregating: %w", err)
	}

	msgs := stdout
	if outputPath == cliutil.StdoutPath {
		msgs = stderr
	}
	if !flags.Quiet {
		for _, r := range report.Results {
			cliutil.Writef(msgs, "%s\n", r.Detail)
		}
	}

	data, err := cliutil.EncodeAggregate(report.Document, flags.Format)
	if err != nil {
		return err
	}
	if err := cliutil.WriteOutput(outputPath, data, stdout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !flags.Quiet && outputPath != cliutil.StdoutPath {
		cliutil.Writef(msgs, "Aggregated document written to %s\n", outputPath)
	}

	if flags.MetricsFile != "" {
		if err := recorder.WriteTextfile(flags.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if flags.Strict && report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSourcesFailed, report.Failed, len(report.Results))
	}
	return nil
}
