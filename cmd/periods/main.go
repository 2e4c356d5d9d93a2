/*
main.go - Application entry point

PURPOSE:
  The periods binary. Serves the reporting period API and builds periods
  from the command line.

COMMANDS:
  serve     Start the HTTP API with graceful shutdown
  build     Build one period and print it as text, JSON or a tree
  version   Print build information

CONFIGURATION:
  Every command reads PERIODS_* environment variables, optionally from a
  .env file (--env-file). See internal/config.

SEE ALSO:
  - serve.go: Server lifecycle
  - build.go: One-shot period construction
  - internal/config/config.go: Environment variables
*/
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/internal/config"
	"github.com/warp/period-engine/period"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "periods",
		Short:         "Calendar-aligned reporting periods",
		Long:          `periods builds month- and day-aligned reporting windows with per-month sub-intervals, over HTTP or from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(buildCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newFactory wires a builder in the configured output timezone.
func newFactory(cfg config.Config) (*factory.DefinitionFactory, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	f := factory.NewDefinitionFactory(period.NewBuilder(period.WithLocation(loc)))
	f.DefaultLength = cfg.DefaultLength
	f.MaxLength = cfg.MaxLength
	return f, nil
}
