package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/MrLipa/oasaggregate/internal/cliutil"
)

// RegistryFlags contains flags for the registry command
type RegistryFlags struct {
	Config string
	Format string
}

// SetupRegistryFlags creates and configures a FlagSet for the registry command.
func SetupRegistryFlags() (*flag.FlagSet, *RegistryFlags) {
	fs := flag.NewFlagSet("registry", flag.ContinueOnError)
	flags := &RegistryFlags{}

	config := cliutil.EnvString(EnvRegistry, "")
	fs.StringVar(&flags.Config, "c", config, "registry file (default: built-in registry)")
	fs.StringVar(&flags.Config, "config", config, "registry file (default: built-in registry)")
	fs.StringVar(&flags.Format, "format", cliutil.FormatText, "output format (text, json, yaml)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasaggregate registry [flags]\n\n")
		cliutil.Writef(fs.Output(), "Print the resolved service registry.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasaggregate registry\n")
		cliutil.Writef(fs.Output(), "  oasaggregate registry -c services.yaml --format yaml\n")
	}

	return fs, flags
}

// HandleRegistry executes the registry command
func HandleRegistry(args []string) error {
	fs, flags := SetupRegistryFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("registry command takes no arguments, got %d", fs.NArg())
	}

	return RunRegistry(flags, os.Stdout)
}

// RunRegistry prints the registry selected by flags to w.
func RunRegistry(flags *RegistryFlags, w io.Writer) error {
	if err := ValidateOutputFormat(flags.Format, cliutil.FormatText, cliutil.FormatJSON, cliutil.FormatYAML); err != nil {
		return err
	}

	reg, err := LoadRegistry(flags.Config)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	if flags.Format != cliutil.FormatText {
		return OutputStructured(w, reg, flags.Format)
	}

	cliutil.Writef(w, "Title: %s\n", reg.Info.Title)
	cliutil.Writef(w, "Version: %s\n\n", reg.Info.Version)
	cliutil.Writef(w, "Sources (%d):\n", len(reg.Sources))
	for _, s := range reg.Sources {
		cliutil.Writef(w, "  %-22s %s\n", s.Name, s.URL)
	}
	return nil
}
