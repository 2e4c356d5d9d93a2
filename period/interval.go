/*
Package period computes calendar-aligned reporting periods.

PURPOSE:
  Dashboards ask for windows like "the last 6 months, one bucket per month"
  or "the month ending today, day-aligned". This package derives such a
  window from a reference instant and splits it into contiguous buckets.

KEY CONCEPTS:
  - Interval: immutable start/end span, optionally split into children
  - Precision: MONTH (whole calendar months) or DAY (day-aligned windows)
  - Reference: the instant the interval was derived from
  - Builder: default-reference construction with an injected Clock

USAGE:
  iv, err := period.Build(3, period.PrecisionMonth, ref)
  for _, bucket := range iv.Buckets() {
      fmt.Println(bucket.Label(), bucket.Start(), bucket.End())
  }

SEE ALSO:
  - builder.go: Boundary arithmetic and decomposition
  - prorate.go: Spreading totals across buckets
*/
package period

import (
	"time"
)

// =============================================================================
// INTERVAL - Immutable reporting period
// =============================================================================

// Interval is a closed span [Start, End] with optional children. End is the
// last second of the period (23:59:59 wall clock). Intervals are never
// modified after Build returns them.
type Interval struct {
	start     time.Time
	end       time.Time
	precision Precision
	length    int
	reference time.Time
	children  []*Interval

	// day of month all month shifts are anchored on
	anchorDay int
}

func (iv *Interval) Start() time.Time         { return iv.start }
func (iv *Interval) End() time.Time           { return iv.end }
func (iv *Interval) Precision() Precision     { return iv.precision }
func (iv *Interval) PeriodLength() int        { return iv.length }
func (iv *Interval) Reference() time.Time     { return iv.reference }
func (iv *Interval) Location() *time.Location { return iv.start.Location() }
func (iv *Interval) HasChildren() bool        { return len(iv.children) > 0 }

// Children returns the sub-intervals in chronological order. The slice is a
// copy; an interval of length 1 has none.
func (iv *Interval) Children() []*Interval {
	out := make([]*Interval, len(iv.children))
	copy(out, iv.children)
	return out
}

// Buckets returns the children, or the interval itself when it has none.
func (iv *Interval) Buckets() []*Interval {
	if !iv.HasChildren() {
		return []*Interval{iv}
	}
	return iv.Children()
}

// WithPrecision rebuilds the interval from the same reference and length at
// another precision. The receiver is left untouched.
func (iv *Interval) WithPrecision(p Precision) (*Interval, error) {
	if err := validate(iv.length, p); err != nil {
		return nil, err
	}
	return build(iv.length, p, iv.reference, iv.anchorDay), nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Contains returns true if t falls within [Start, End]. End covers its whole
// final second.
func (iv *Interval) Contains(t time.Time) bool {
	return !t.Before(iv.start) && t.Before(iv.end.Add(time.Second))
}

// BucketFor returns the index of the bucket containing t.
func (iv *Interval) BucketFor(t time.Time) (int, bool) {
	if !iv.Contains(t) {
		return -1, false
	}
	for i, b := range iv.Buckets() {
		if b.Contains(t) {
			return i, true
		}
	}
	return -1, false
}

// Days returns the number of calendar days covered.
func (iv *Interval) Days() int {
	return daysBetween(iv.start, iv.end) + 1
}

// Previous returns the interval of the same length and precision that ends
// right before this one starts.
func (iv *Interval) Previous() *Interval {
	return iv.shift(-iv.length)
}

// Next returns the interval of the same length and precision that starts
// right after this one ends.
func (iv *Interval) Next() *Interval {
	return iv.shift(iv.length)
}

func (iv *Interval) shift(months int) *Interval {
	ref := shiftMonths(noon(iv.reference), months, iv.anchorDay)
	return build(iv.length, iv.precision, ref, iv.anchorDay)
}

// =============================================================================
// LABELS
// =============================================================================

const (
	monthLabelLayout = "Jan 2006"
	monthKeyLayout   = "2006-01"
	dayLayout        = "2006-01-02"
)

// Label returns a short human-readable name, e.g. "Mar 2024" or
// "2024-01-15..2024-02-14".
func (iv *Interval) Label() string {
	if iv.precision == PrecisionMonth {
		if iv.length == 1 {
			return iv.start.Format(monthLabelLayout)
		}
		return iv.start.Format(monthLabelLayout) + ".." + iv.end.Format(monthLabelLayout)
	}
	return iv.start.Format(dayLayout) + ".." + iv.end.Format(dayLayout)
}

// Key returns a stable identifier for the bucket, unique among siblings.
func (iv *Interval) Key() string {
	if iv.precision == PrecisionMonth {
		return iv.start.Format(monthKeyLayout)
	}
	return iv.start.Format(dayLayout)
}

// String returns a string representation of the interval.
func (iv *Interval) String() string {
	return "[" + iv.start.Format(time.DateTime) + ", " + iv.end.Format(time.DateTime) + "]"
}
