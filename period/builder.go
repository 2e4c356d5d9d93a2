/*
builder.go - Reporting period construction

PURPOSE:
  Derives a calendar-aligned Interval from a reference instant and a span
  of N months, then decomposes it into N length-1 children.

BOUNDARIES:
  The reference is first moved to 12:00:00 on its own calendar day. All
  month and day shifts happen on that noon-anchored date, so a DST offset
  change can never push the result onto a neighbouring day.

  MONTH precision (reference 2024-03-15, length 3):
    start = first day of (reference - 2 months) at 00:00:00   2024-01-01
    end   = last day of the reference month at 23:59:59        2024-03-31

  DAY precision (reference 2018-02-14, length 1):
    start = (reference - 1 month) + 1 day at 00:00:00          2018-01-15
    end   = reference day at 23:59:59                          2018-02-14

CHILDREN:
  MONTH child i: start + i months, built with length 1.
  DAY child i:   start + (i+1) months - 1 day, built with length 1. The
                 step back undoes the parent's one-day forward shift, so the
                 child's own "reference - 1 month + 1 day" lands on the
                 parent's boundary.

  Month shifts keep the root reference's day of month and clamp it to the
  target month (2024-03-31 minus one month is 2024-02-29). The same anchor
  is passed down to children so their boundaries line up with the parent's.

SEE ALSO:
  - interval.go: The Interval value type
  - render.go: Text dump of an Interval tree
*/
package period

import (
	"time"
)

const (
	// DefaultPeriodLength is the span used when none is given.
	DefaultPeriodLength = 6

	// DefaultPrecision is the precision used when none is given.
	DefaultPrecision = PrecisionMonth
)

// Build derives an Interval of length months at the given precision from
// reference. The reference's location decides the wall clock used for all
// boundaries.
func Build(length int, precision Precision, reference time.Time) (*Interval, error) {
	if err := validate(length, precision); err != nil {
		return nil, err
	}
	if reference.IsZero() {
		return nil, ErrMissingReference
	}
	return build(length, precision, reference, reference.Day()), nil
}

func validate(length int, precision Precision) error {
	if !precision.Valid() {
		return &InvalidPrecisionError{Value: string(precision)}
	}
	if length < 1 {
		return &InvalidPeriodLengthError{Length: length}
	}
	return nil
}

// build assumes validated input.
func build(length int, precision Precision, reference time.Time, anchorDay int) *Interval {
	ref := noon(reference)

	iv := &Interval{
		precision: precision,
		length:    length,
		reference: reference,
		anchorDay: anchorDay,
	}

	switch precision {
	case PrecisionMonth:
		iv.start = StartOfDay(shiftMonths(ref, -(length - 1), 1))
		last := DaysInMonth(ref.Year(), ref.Month())
		iv.end = EndOfDay(time.Date(ref.Year(), ref.Month(), last, noonHour, 0, 0, 0, ref.Location()))
	case PrecisionDay:
		iv.start = StartOfDay(addDays(shiftMonths(ref, -length, anchorDay), 1))
		iv.end = EndOfDay(ref)
	}

	if length > 1 {
		iv.children = make([]*Interval, 0, length)
		for i := 0; i < length; i++ {
			iv.children = append(iv.children, iv.child(ref, i))
		}
	}
	return iv
}

// child builds the i-th length-1 sub-interval.
func (iv *Interval) child(ref time.Time, i int) *Interval {
	if iv.precision == PrecisionMonth {
		return build(1, PrecisionMonth, shiftMonths(noon(iv.start), i, 1), 1)
	}
	// start + (i+1) months - 1 day, expressed against the anchored reference
	// so clamped month ends stay contiguous.
	return build(1, PrecisionDay, shiftMonths(ref, i+1-iv.length, iv.anchorDay), iv.anchorDay)
}

// =============================================================================
// BUILDER - Build with an injected clock and output location
// =============================================================================

// Builder builds intervals, defaulting the reference to the clock's current
// instant in the output location. A Builder is immutable and safe for
// concurrent use.
type Builder struct {
	clock    Clock
	location *time.Location
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for the default reference.
func WithClock(c Clock) Option {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithLocation sets the output location for the default reference.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.location = loc
		}
	}
}

// NewBuilder creates a Builder. Without options it reads the system clock
// and reports in UTC.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		clock:    SystemClock{},
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Location returns the output location.
func (b *Builder) Location() *time.Location { return b.location }

// Now returns the current instant in the output location.
func (b *Builder) Now() time.Time {
	return b.clock.Now().In(b.location)
}

// Build derives an interval ending at the current instant.
func (b *Builder) Build(length int, precision Precision) (*Interval, error) {
	return Build(length, precision, b.Now())
}

// BuildAt derives an interval from reference, keeping its location. A zero
// reference falls back to Now.
func (b *Builder) BuildAt(length int, precision Precision, reference time.Time) (*Interval, error) {
	if reference.IsZero() {
		reference = b.Now()
	}
	return Build(length, precision, reference)
}

// Default builds the default period: the last six months at month precision.
func (b *Builder) Default() (*Interval, error) {
	return b.Build(DefaultPeriodLength, DefaultPrecision)
}
