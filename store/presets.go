package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/warp/period-engine/factory"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// BUILT-IN PRESETS
// =============================================================================

// DefaultPresets returns the presets every registry starts with.
func DefaultPresets() []Preset {
	return []Preset{
		{
			ID:          "last-6-months",
			Name:        "Last 6 Months",
			Description: "Six calendar months ending with the current month",
			Definition:  factory.DefinitionJSON{Length: factory.Length(6), Precision: "month"},
		},
		{
			ID:          "last-12-months",
			Name:        "Last 12 Months",
			Description: "Twelve calendar months ending with the current month",
			Definition:  factory.DefinitionJSON{Length: factory.Length(12), Precision: "month"},
		},
		{
			ID:          "last-3-months",
			Name:        "Last 3 Months",
			Description: "Current quarter-sized window of calendar months",
			Definition:  factory.DefinitionJSON{Length: factory.Length(3), Precision: "month"},
		},
		{
			ID:          "this-month",
			Name:        "This Month",
			Description: "The current calendar month",
			Definition:  factory.DefinitionJSON{Length: factory.Length(1), Precision: "month"},
		},
		{
			ID:          "trailing-month",
			Name:        "Trailing Month",
			Description: "One month of days ending today",
			Definition:  factory.DefinitionJSON{Length: factory.Length(1), Precision: "day"},
		},
		{
			ID:          "trailing-6-months",
			Name:        "Trailing 6 Months",
			Description: "Six day-aligned months ending today",
			Definition:  factory.DefinitionJSON{Length: factory.Length(6), Precision: "day"},
		},
	}
}

// =============================================================================
// YAML LOADER
// =============================================================================

// presetFile is the on-disk layout:
//
//	presets:
//	  - id: fiscal-half
//	    name: Fiscal Half
//	    definition:
//	      length: 6
//	      timezone: Europe/Paris
type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads presets from a YAML file on fs.
func LoadPresets(fs afero.Fs, path string) ([]Preset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}

	var pf presetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidPreset, path, err)
	}

	seen := make(map[string]bool, len(pf.Presets))
	for _, p := range pf.Presets {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q in %s", ErrInvalidPreset, p.ID, path)
		}
		seen[p.ID] = true
	}
	return pf.Presets, nil
}

// Bootstrap fills s with the default presets plus those from path, if set.
// File presets replace defaults with the same ID. Every preset is validated
// before anything is stored.
func Bootstrap(ctx context.Context, s *Memory, f *factory.DefinitionFactory, fs afero.Fs, path string) error {
	presets := DefaultPresets()

	if path != "" {
		loaded, err := LoadPresets(fs, path)
		if err != nil {
			return err
		}
		presets = mergePresets(presets, loaded)
	}

	for _, p := range presets {
		if err := p.Validate(f); err != nil {
			return err
		}
	}
	return s.SaveAll(ctx, presets)
}

// mergePresets overlays extra onto base by ID, keeping base order first.
func mergePresets(base, extra []Preset) []Preset {
	index := make(map[string]int, len(base))
	out := make([]Preset, len(base))
	copy(out, base)
	for i, p := range out {
		index[p.ID] = i
	}
	for _, p := range extra {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
