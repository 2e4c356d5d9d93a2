package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory preset registry
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

func NewMemory() *Memory {
	return &Memory{
		presets: make(map[string]Preset),
	}
}

// Save adds or replaces a preset.
func (m *Memory) Save(_ context.Context, p Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[p.ID] = p
	return nil
}

// SaveAll adds presets atomically: either all are stored or none.
func (m *Memory) SaveAll(_ context.Context, presets []Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(presets))
	for _, p := range presets {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidPreset, p.ID)
		}
		seen[p.ID] = true
	}

	for _, p := range presets {
		m.presets[p.ID] = p
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presets[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	return p, nil
}

func (m *Memory) List(_ context.Context) ([]Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Preset, 0, len(m.presets))
	for _, p := range m.presets {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}
