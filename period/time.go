package period

import (
	"time"
)

// =============================================================================
// CLOCK - Source of the default reference instant
// =============================================================================

// Clock provides the current instant. Builders read it only when the caller
// does not supply a reference.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns At. Used in tests and for replaying reports.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// =============================================================================
// CALENDAR ARITHMETIC
// =============================================================================
// All arithmetic works on the wall-clock date in t's location. Times are
// anchored at noon so a one hour DST shift can never move the date.

const (
	noonHour = 12
)

// noon returns t's calendar day at 12:00:00 in t's location.
func noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), noonHour, 0, 0, 0, t.Location())
}

// StartOfDay returns the first instant of t's calendar day. That is
// 00:00:00 except where a DST change skips midnight (the day begins at the
// transition) or repeats the first hour (the earlier pass is used).
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	// Walk back from noon one zone period at a time until the instant
	// before the candidate falls on the previous day.
	s := time.Date(y, m, d, noonHour, 0, 0, 0, loc)
	for {
		zoneStart, _ := s.ZoneBounds()
		_, offset := s.Zone()

		first := midnight.Add(-time.Duration(offset) * time.Second).In(loc)
		if !zoneStart.IsZero() && first.Before(zoneStart) {
			first = zoneStart
		}

		prev := first.Add(-time.Second)
		if prev.Day() != d {
			return first
		}
		s = prev
	}
}

// EndOfDay returns the last second of t's calendar day, one second before
// the next day starts. Consecutive days are contiguous even when an hour
// around midnight repeats.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, noonHour, 0, 0, 0, t.Location())
	return StartOfDay(next).Add(-time.Second)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, noonHour, 0, 0, 0, time.UTC).Day()
}

// shiftMonths moves t by n months keeping anchorDay as the day of month,
// clamped to the length of the target month. Anchoring every shift on the
// same day makes shifts composable: shift(shift(t, a), b) == shift(t, a+b).
func shiftMonths(t time.Time, n, anchorDay int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, noonHour, 0, 0, 0, t.Location())
	day := anchorDay
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, noonHour, 0, 0, 0, t.Location())
}

// addDays moves t by n calendar days, keeping the noon anchor.
func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, noonHour, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
