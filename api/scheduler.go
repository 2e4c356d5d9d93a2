/*
scheduler.go - Preset rollover scheduler

PURPOSE:
  Periodically rebuilds every preset against the builder's clock and
  detects when a preset's current window has moved on (a new month began,
  or a day-precision window slid forward). Each change is logged and kept
  in a bounded history for inspection.

DESIGN:
  - Runs in the caller's goroutine until its context is cancelled
  - Checks once immediately, then every CheckInterval
  - The first sighting of a preset only records its window
  - Presets whose definition pins a reference never roll over

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 minute)
  - HistorySize:   Rollovers kept in memory (default: 100)

USAGE:
  scheduler := NewRolloverScheduler(factory, presets, logger)
  g.Go(func() error { return scheduler.Run(ctx) })

SEE ALSO:
  - store/presets.go: Built-in presets
  - cmd/periods/serve.go: Lifecycle
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/store"
)

// Rollover records a preset moving from one window to the next.
type Rollover struct {
	PresetID string    `json:"preset_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	At       time.Time `json:"at"`
}

// RolloverScheduler watches presets for window changes.
type RolloverScheduler struct {
	Factory       *factory.DefinitionFactory
	Presets       store.PresetStore
	Logger        zerolog.Logger
	CheckInterval time.Duration
	HistorySize   int

	mu        sync.Mutex
	windows   map[string]string
	rollovers []Rollover
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(f *factory.DefinitionFactory, presets store.PresetStore, logger zerolog.Logger) *RolloverScheduler {
	return &RolloverScheduler{
		Factory:       f,
		Presets:       presets,
		Logger:        logger,
		CheckInterval: time.Minute,
		HistorySize:   100,
		windows:       make(map[string]string),
	}
}

// Run checks presets until ctx is cancelled. It always returns nil.
func (rs *RolloverScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(rs.CheckInterval)
	defer ticker.Stop()

	rs.Logger.Info().Dur("interval", rs.CheckInterval).Msg("rollover scheduler started")

	// Run immediately on start
	rs.Check(ctx)

	for {
		select {
		case <-ticker.C:
			rs.Check(ctx)
		case <-ctx.Done():
			rs.Logger.Info().Msg("rollover scheduler stopped")
			return nil
		}
	}
}

// Check rebuilds every preset once and returns the rollovers it detected.
func (rs *RolloverScheduler) Check(ctx context.Context) []Rollover {
	presets, err := rs.Presets.List(ctx)
	if err != nil {
		rs.Logger.Error().Err(err).Msg("list presets")
		return nil
	}

	now := rs.Factory.Builder.Now()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	var detected []Rollover
	for _, p := range presets {
		iv, err := rs.Factory.FromJSON(p.Definition)
		if err != nil {
			rs.Logger.Error().Err(err).Str("preset", p.ID).Msg("build preset")
			continue
		}

		window := iv.String()
		prev, seen := rs.windows[p.ID]
		rs.windows[p.ID] = window
		if !seen || prev == window {
			continue
		}

		r := Rollover{PresetID: p.ID, From: prev, To: window, At: now}
		detected = append(detected, r)
		rs.Logger.Info().
			Str("preset", p.ID).
			Str("from", prev).
			Str("to", window).
			Msg("period rolled over")
	}

	rs.rollovers = append(rs.rollovers, detected...)
	if over := len(rs.rollovers) - rs.HistorySize; rs.HistorySize > 0 && over > 0 {
		rs.rollovers = append([]Rollover(nil), rs.rollovers[over:]...)
	}
	return detected
}

// Rollovers returns the recorded history, oldest first.
func (rs *RolloverScheduler) Rollovers() []Rollover {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]Rollover, len(rs.rollovers))
	copy(out, rs.rollovers)
	return out
}
