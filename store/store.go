/*
store.go - Preset registry interface

PURPOSE:
  Presets are named period definitions a dashboard can ask for by ID
  ("last-6-months", "trailing-month"). The registry holds them in
  process memory; they come from built-in defaults and an optional YAML
  file read at startup.

  Nothing is written back to disk: the registry is rebuilt on every start.

IMPLEMENTATIONS:
  - memory.go: Thread-safe in-memory registry

SEE ALSO:
  - presets.go: Built-in presets and the YAML loader
  - factory/definition.go: DefinitionJSON carried by each preset
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/warp/period-engine/factory"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested ID.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidPreset is returned when a preset fails validation.
	ErrInvalidPreset = errors.New("invalid preset")
)

// Preset is a named period definition.
type Preset struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Definition  factory.DefinitionJSON `json:"definition" yaml:"definition"`
}

var presetIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate checks the preset's ID, name and definition. An empty reference
// is valid and means "now" at build time.
func (p Preset) Validate(f *factory.DefinitionFactory) error {
	if !presetIDPattern.MatchString(p.ID) {
		return fmt.Errorf("%w: id %q must be lowercase letters, digits and dashes", ErrInvalidPreset, p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("%w %q: name is required", ErrInvalidPreset, p.ID)
	}
	if _, err := f.Resolve(p.Definition); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidPreset, p.ID, err)
	}
	return nil
}

// PresetStore holds presets by ID.
type PresetStore interface {
	// Save adds or replaces a preset.
	Save(ctx context.Context, p Preset) error

	// Get returns the preset with the given ID or ErrPresetNotFound.
	Get(ctx context.Context, id string) (Preset, error)

	// List returns all presets ordered by ID.
	List(ctx context.Context) ([]Preset, error)
}
