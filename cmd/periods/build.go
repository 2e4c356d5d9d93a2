package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/warp/period-engine/api"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store"
)

// Output formats for the build command.
const (
	formatText = "text"
	formatJSON = "json"
	formatTree = "tree"
)

func buildCmd() *cobra.Command {
	var (
		envFile string
		preset  string
		format  string
		length  int
		def     factory.DefinitionJSON
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a reporting period and print it",
		Long: `Build a reporting period and print it.

Flags left unset fall back to the preset (when --preset is given), then to
PERIODS_DEFAULT_LENGTH, month precision, the current instant and
PERIODS_OUTPUT_TIMEZONE.`,
		Example: `  periods build --length 3 --reference 2024-03-15
  periods build --precision day --reference 2018-02-14 --format json
  periods build --preset last-12-months --format tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			f, err := newFactory(cfg)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("length") {
				def.Length = &length
			}

			if preset != "" {
				base, err := lookupPreset(cmd.Context(), f, cfg.PresetsFile, preset)
				if err != nil {
					return err
				}
				def = overrideDefinition(base, def, cmd)
			}

			iv, err := f.FromJSON(def)
			if err != nil {
				return err
			}
			return printInterval(cmd.OutOrStdout(), iv, format)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&preset, "preset", "", "Start from a named preset")
	cmd.Flags().IntVar(&length, "length", 0, "Number of months covered (default: PERIODS_DEFAULT_LENGTH)")
	cmd.Flags().StringVar(&def.Precision, "precision", "", "month or day (default: month)")
	cmd.Flags().StringVar(&def.Reference, "reference", "", "Reference instant, RFC3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().StringVar(&def.Timezone, "timezone", "", "IANA timezone (default: PERIODS_OUTPUT_TIMEZONE)")
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "Output format: text, json, tree")

	return cmd
}

func lookupPreset(ctx context.Context, f *factory.DefinitionFactory, path, id string) (factory.DefinitionJSON, error) {
	presets := store.NewMemory()
	if err := store.Bootstrap(ctx, presets, f, afero.NewOsFs(), path); err != nil {
		return factory.DefinitionJSON{}, fmt.Errorf("load presets: %w", err)
	}
	p, err := presets.Get(ctx, id)
	if err != nil {
		return factory.DefinitionJSON{}, err
	}
	return p.Definition, nil
}

// overrideDefinition applies the flags the user actually set on top of base.
func overrideDefinition(base, flags factory.DefinitionJSON, cmd *cobra.Command) factory.DefinitionJSON {
	if cmd.Flags().Changed("length") {
		base.Length = flags.Length
	}
	if cmd.Flags().Changed("precision") {
		base.Precision = flags.Precision
	}
	if cmd.Flags().Changed("reference") {
		base.Reference = flags.Reference
	}
	if cmd.Flags().Changed("timezone") {
		base.Timezone = flags.Timezone
	}
	return base
}

func printInterval(w io.Writer, iv *period.Interval, format string) error {
	switch strings.ToLower(format) {
	case formatText:
		_, err := io.WriteString(w, iv.Render())
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewIntervalDTO(iv))
	case formatTree:
		_, err := fmt.Fprintln(w, renderTree(iv))
		return err
	default:
		return fmt.Errorf("unknown format %q: expected text, json or tree", format)
	}
}
