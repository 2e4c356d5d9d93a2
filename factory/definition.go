/*
Package factory provides JSON to period conversion.

PURPOSE:
  Converts JSON (or YAML) period definitions into period.Interval trees.
  Dashboards, presets and the CLI all describe the period they want as a
  small document; the factory validates it, fills defaults and resolves
  the reference instant and timezone.

JSON SCHEMA:
  {
    "length": 6,
    "precision": "month",
    "reference": "2024-03-15",
    "timezone": "Europe/Paris"
  }

  All fields are optional:
  - length:    defaults to the factory's DefaultLength (6) when absent;
               0 and negatives are rejected
  - precision: defaults to "month"
  - reference: RFC3339, "2006-01-02 15:04:05" or "2006-01-02";
               defaults to now in the resolved timezone
  - timezone:  IANA name; defaults to the builder's output location

TIMEZONES:
  Date-only and local date-time references are read in the resolved
  timezone. RFC3339 references carry their own offset and are converted to
  the resolved timezone, so boundaries follow its DST rules rather than a
  fixed offset.

USAGE:
  f := factory.NewDefinitionFactory(period.NewBuilder())
  iv, err := f.ParseDefinition(`{"length": 3, "reference": "2024-03-15"}`)

SEE ALSO:
  - period/builder.go: Boundary computation
  - store/presets.go: Named definitions
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warp/period-engine/period"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidDefinition is returned when a definition document cannot be decoded.
	ErrInvalidDefinition = errors.New("invalid period definition")

	// ErrInvalidTimezone is returned for unknown IANA timezone names.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidReference is returned when the reference cannot be parsed.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrPeriodTooLong is returned when the length exceeds MaxLength.
	ErrPeriodTooLong = errors.New("period too long")
)

// IsClientError returns true if the error is due to an invalid definition.
func IsClientError(err error) bool {
	return period.IsClientError(err) ||
		errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrInvalidTimezone) ||
		errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrPeriodTooLong)
}

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// DefinitionJSON is the JSON representation of a period request. A nil
// Length means "use the default"; an explicit 0 is rejected.
type DefinitionJSON struct {
	Length    *int   `json:"length,omitempty" yaml:"length,omitempty"`
	Precision string `json:"precision,omitempty" yaml:"precision,omitempty"`
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Timezone  string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Length returns a pointer to n for building a DefinitionJSON in code.
func Length(n int) *int { return &n }

// Resolved is a definition with defaults applied and values parsed.
type Resolved struct {
	Length    int
	Precision period.Precision
	Reference time.Time
	Location  *time.Location
}

var referenceLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
}

// =============================================================================
// DEFINITION FACTORY
// =============================================================================

// DefinitionFactory converts definitions to intervals.
type DefinitionFactory struct {
	Builder *period.Builder

	// DefaultLength is used when a definition omits length.
	DefaultLength int

	// MaxLength bounds the accepted length. Zero means unbounded.
	MaxLength int
}

// NewDefinitionFactory creates a factory around the given builder.
func NewDefinitionFactory(b *period.Builder) *DefinitionFactory {
	if b == nil {
		b = period.NewBuilder()
	}
	return &DefinitionFactory{
		Builder:       b,
		DefaultLength: period.DefaultPeriodLength,
	}
}

// ParseDefinition parses a JSON string into an Interval.
func (f *DefinitionFactory) ParseDefinition(jsonStr string) (*period.Interval, error) {
	var def DefinitionJSON
	if err := json.Unmarshal([]byte(jsonStr), &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return f.FromJSON(def)
}

// FromJSON converts a DefinitionJSON to an Interval.
func (f *DefinitionFactory) FromJSON(def DefinitionJSON) (*period.Interval, error) {
	r, err := f.Resolve(def)
	if err != nil {
		return nil, err
	}
	return period.Build(r.Length, r.Precision, r.Reference)
}

// Resolve validates def and applies defaults without building the interval.
func (f *DefinitionFactory) Resolve(def DefinitionJSON) (Resolved, error) {
	length := f.DefaultLength
	if def.Length != nil {
		length = *def.Length
	}
	if length < 1 {
		return Resolved{}, &period.InvalidPeriodLengthError{Length: length}
	}
	if f.MaxLength > 0 && length > f.MaxLength {
		return Resolved{}, fmt.Errorf("%w: %d exceeds maximum of %d", ErrPeriodTooLong, length, f.MaxLength)
	}

	precision := period.DefaultPrecision
	if def.Precision != "" {
		p, err := period.ParsePrecision(def.Precision)
		if err != nil {
			return Resolved{}, err
		}
		precision = p
	}

	loc, err := f.location(def.Timezone)
	if err != nil {
		return Resolved{}, err
	}

	ref, err := f.reference(def.Reference, loc)
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Length:    length,
		Precision: precision,
		Reference: ref,
		Location:  loc,
	}, nil
}

func (f *DefinitionFactory) location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return f.Builder.Location(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

func (f *DefinitionFactory) reference(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return f.Builder.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range referenceLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		// first instant of the day, which is not always 00:00 in loc
		return period.StartOfDay(time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)), nil
	}
	return time.Time{}, fmt.Errorf("%w %q: expected RFC3339 or YYYY-MM-DD", ErrInvalidReference, s)
}
