package period_test

import (
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/period-engine/period"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func date(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func mustBuild(t *testing.T, length int, precision period.Precision, ref time.Time) *period.Interval {
	t.Helper()
	iv, err := period.Build(length, precision, ref)
	require.NoError(t, err)
	return iv
}

// assertWellFormed checks the structural invariants every interval holds.
func assertWellFormed(t *testing.T, iv *period.Interval) {
	t.Helper()

	assert.False(t, iv.End().Before(iv.Start()), "start must not be after end: %s", iv)
	assert.NotEqual(t, iv.Start().Day(), iv.Start().Add(-time.Second).Day(), "start is the first instant of its day: %s", iv)
	assert.NotEqual(t, iv.End().Day(), iv.End().Add(time.Second).Day(), "end is the last second of its day: %s", iv)
	assert.Equal(t, []int{23, 59, 59}, []int{iv.End().Hour(), iv.End().Minute(), iv.End().Second()}, "end at 23:59:59: %s", iv)

	if iv.Precision() == period.PrecisionMonth {
		assert.Equal(t, 1, iv.Start().Day())
		assert.Equal(t, period.DaysInMonth(iv.End().Year(), iv.End().Month()), iv.End().Day())
	}

	children := iv.Children()
	if iv.PeriodLength() == 1 {
		assert.Empty(t, children)
		return
	}

	require.Len(t, children, iv.PeriodLength())
	assert.True(t, children[0].Start().Equal(iv.Start()), "first child starts with parent: %s vs %s", children[0], iv)
	assert.True(t, children[len(children)-1].End().Equal(iv.End()), "last child ends with parent: %s vs %s", children[len(children)-1], iv)

	for i, c := range children {
		assert.Equal(t, 1, c.PeriodLength())
		assert.Equal(t, iv.Precision(), c.Precision())
		assert.Empty(t, c.Children())
		if i > 0 {
			prev := children[i-1]
			assert.True(t, prev.End().Add(time.Second).Equal(c.Start()),
				"child %d ends %s, child %d starts %s", i-1, prev.End(), i, c.Start())
		}
	}
}

// =============================================================================
// MONTH PRECISION
// =============================================================================

func TestBuild_Month_ThreeMonthsInLeapYear(t *testing.T) {
	// GIVEN: Reference 2024-03-15, three months
	// WHEN: Building at month precision
	// THEN: Jan 1 to Mar 31, one child per month with the right month ends

	iv := mustBuild(t, 3, period.PrecisionMonth, date(2024, time.March, 15, 10, 30, 0))

	assert.Equal(t, date(2024, time.January, 1, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2024, time.March, 31, 23, 59, 59), iv.End())

	children := iv.Children()
	require.Len(t, children, 3)

	expected := []struct {
		month   time.Month
		lastDay int
	}{
		{time.January, 31},
		{time.February, 29},
		{time.March, 31},
	}
	for i, e := range expected {
		assert.Equal(t, date(2024, e.month, 1, 0, 0, 0), children[i].Start(), "child %d start", i)
		assert.Equal(t, date(2024, e.month, e.lastDay, 23, 59, 59), children[i].End(), "child %d end", i)
	}

	assertWellFormed(t, iv)
}

func TestBuild_Month_SingleMonthHasNoChildren(t *testing.T) {
	iv := mustBuild(t, 1, period.PrecisionMonth, date(2023, time.February, 10, 0, 0, 0))

	assert.Equal(t, date(2023, time.February, 1, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2023, time.February, 28, 23, 59, 59), iv.End())
	assert.Empty(t, iv.Children())
	assert.False(t, iv.HasChildren())
}

func TestBuild_Month_CrossesYearBoundary(t *testing.T) {
	iv := mustBuild(t, 6, period.PrecisionMonth, date(2025, time.February, 3, 8, 0, 0))

	assert.Equal(t, date(2024, time.September, 1, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2025, time.February, 28, 23, 59, 59), iv.End())
	assertWellFormed(t, iv)
}

func TestBuild_Month_EndOfMonthReference(t *testing.T) {
	// GIVEN: A reference on the 31st, where naive month subtraction overflows
	// THEN: The window still covers exactly two months

	iv := mustBuild(t, 2, period.PrecisionMonth, date(2024, time.March, 31, 18, 0, 0))

	assert.Equal(t, date(2024, time.February, 1, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2024, time.March, 31, 23, 59, 59), iv.End())
	assertWellFormed(t, iv)
}

// =============================================================================
// DAY PRECISION
// =============================================================================

func TestBuild_Day_OneMonthEndingOnReference(t *testing.T) {
	iv := mustBuild(t, 1, period.PrecisionDay, date(2018, time.February, 14, 9, 0, 0))

	assert.Equal(t, date(2018, time.January, 15, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2018, time.February, 14, 23, 59, 59), iv.End())
	assert.Empty(t, iv.Children())
}

func TestBuild_Day_ChildrenAreDayAlignedMonths(t *testing.T) {
	iv := mustBuild(t, 2, period.PrecisionDay, date(2018, time.March, 14, 9, 0, 0))

	assert.Equal(t, date(2018, time.January, 15, 0, 0, 0), iv.Start())
	assert.Equal(t, date(2018, time.March, 14, 23, 59, 59), iv.End())

	children := iv.Children()
	require.Len(t, children, 2)
	assert.Equal(t, date(2018, time.January, 15, 0, 0, 0), children[0].Start())
	assert.Equal(t, date(2018, time.February, 14, 23, 59, 59), children[0].End())
	assert.Equal(t, date(2018, time.February, 15, 0, 0, 0), children[1].Start())
	assert.Equal(t, date(2018, time.March, 14, 23, 59, 59), children[1].End())

	assertWellFormed(t, iv)
}

func TestBuild_Day_ClampsAtShortMonths(t *testing.T) {
	// GIVEN: Reference on March 31st of a leap year
	// THEN: February is clamped to the 29th and children stay contiguous

	iv := mustBuild(t, 2, period.PrecisionDay, date(2024, time.March, 31, 12, 0, 0))

	assert.Equal(t, date(2024, time.February, 1, 0, 0, 0), iv.Start())

	children := iv.Children()
	require.Len(t, children, 2)
	assert.Equal(t, date(2024, time.February, 29, 23, 59, 59), children[0].End())
	assert.Equal(t, date(2024, time.March, 1, 0, 0, 0), children[1].Start())

	assertWellFormed(t, iv)
}

// =============================================================================
// INVARIANTS ACROSS INPUTS
// =============================================================================

func TestBuild_InvariantsHoldAcrossReferences(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	berlin := mustLocation(t, "Europe/Berlin")
	santiago := mustLocation(t, "America/Santiago")
	havana := mustLocation(t, "America/Havana")

	var refs []time.Time
	for _, loc := range []*time.Location{time.UTC, ny, berlin, santiago, havana} {
		for _, d := range [][3]int{
			{2024, 1, 31}, {2024, 2, 29}, {2024, 3, 10}, {2024, 3, 31},
			{2023, 3, 29}, {2023, 5, 30}, {2023, 10, 29}, {2023, 11, 5},
			{2025, 12, 31}, {2025, 7, 1},
			{2018, 5, 13}, {2018, 6, 12}, {2018, 8, 12}, {2018, 9, 11},
			{2023, 3, 12}, {2023, 12, 4},
		} {
			refs = append(refs,
				time.Date(d[0], time.Month(d[1]), d[2], 0, 30, 0, 0, loc),
				time.Date(d[0], time.Month(d[1]), d[2], 23, 45, 0, 0, loc),
			)
		}
	}

	for _, ref := range refs {
		for _, p := range period.Precisions() {
			for _, length := range []int{1, 2, 3, 6, 12, 25} {
				iv := mustBuild(t, length, p, ref)
				assertWellFormed(t, iv)
				assert.Equal(t, ref.Location(), iv.Start().Location())
				if p == period.PrecisionDay {
					assert.Equal(t, ref.Day(), iv.End().Day(), "day precision ends on the reference day")
				} else {
					assert.Equal(t, ref.Month(), iv.End().Month(), "month precision ends in the reference month")
				}
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	ref := date(2024, time.August, 20, 15, 4, 5)

	for _, p := range period.Precisions() {
		a := mustBuild(t, 6, p, ref)
		b := mustBuild(t, 6, p, ref)

		assert.Equal(t, a, b, "same inputs produce equal trees")
		assert.NotSame(t, a, b)
	}
}

func TestBuild_ConcurrentCallsAgree(t *testing.T) {
	ref := date(2024, time.May, 31, 6, 0, 0)
	want := mustBuild(t, 12, period.PrecisionDay, ref)

	var wg sync.WaitGroup
	results := make([]*period.Interval, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			iv, err := period.Build(12, period.PrecisionDay, ref)
			if err == nil {
				results[i] = iv
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// =============================================================================
// DAYLIGHT SAVING TIME
// =============================================================================

func TestBuild_Day_SpringForwardDoesNotShiftDate(t *testing.T) {
	// GIVEN: New York springs forward on 2024-03-10 at 02:00
	// WHEN: The month arithmetic crosses the transition
	// THEN: Boundaries land on the expected calendar days

	ny := mustLocation(t, "America/New_York")

	iv := mustBuild(t, 1, period.PrecisionDay, time.Date(2024, time.April, 10, 0, 30, 0, 0, ny))
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, ny), iv.Start())
	assert.Equal(t, time.Date(2024, time.April, 10, 23, 59, 59, 0, ny), iv.End())

	onTransition := mustBuild(t, 1, period.PrecisionDay, time.Date(2024, time.March, 10, 3, 30, 0, 0, ny))
	assert.Equal(t, 11, onTransition.Start().Day())
	assert.Equal(t, time.February, onTransition.Start().Month())
	assert.Equal(t, 0, onTransition.Start().Hour())
	assert.Equal(t, 10, onTransition.End().Day())
	assert.Equal(t, 23, onTransition.End().Hour())
}

func TestBuild_Day_FallBackDoesNotShiftDate(t *testing.T) {
	ny := mustLocation(t, "America/New_York")

	iv := mustBuild(t, 1, period.PrecisionDay, time.Date(2023, time.November, 5, 1, 30, 0, 0, ny))
	assert.Equal(t, time.Date(2023, time.October, 6, 0, 0, 0, 0, ny), iv.Start())
	assert.Equal(t, time.Date(2023, time.November, 5, 23, 59, 59, 0, ny), iv.End())
}

func TestBuild_Day_SkippedMidnightStaysOnCalendarDay(t *testing.T) {
	// GIVEN: Santiago skips 2018-08-12 00:00 (clocks jump to 01:00)
	// WHEN: Building the month-long day window ending 2018-09-11
	// THEN: It starts on Aug 12 at the transition, not late on Aug 11

	santiago := mustLocation(t, "America/Santiago")
	iv := mustBuild(t, 1, period.PrecisionDay, time.Date(2018, time.September, 11, 10, 0, 0, 0, santiago))

	y, m, d := iv.Start().Date()
	assert.Equal(t, []int{2018, 8, 12}, []int{y, int(m), d})
	assert.True(t, iv.Start().Equal(time.Date(2018, time.August, 12, 1, 0, 0, 0, santiago)), "got %s", iv.Start())
	assert.Equal(t, 31, iv.Days())
	assert.True(t, iv.Contains(iv.Start()))
	assert.False(t, iv.Contains(iv.Start().Add(-time.Second)))
}

func TestBuild_Day_RepeatedHourKeepsChildrenContiguous(t *testing.T) {
	// GIVEN: Santiago falls back at 2018-05-13 00:00 (23:00 on May 12 repeats)
	// WHEN: Building two day-aligned months ending 2018-06-12
	// THEN: The first child ends on the second pass of May 12 23:59:59

	santiago := mustLocation(t, "America/Santiago")
	iv := mustBuild(t, 2, period.PrecisionDay, time.Date(2018, time.June, 12, 10, 0, 0, 0, santiago))

	children := iv.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].End().Add(time.Second).Equal(children[1].Start()),
		"child 0 ends %s, child 1 starts %s", children[0].End(), children[1].Start())
	assert.Equal(t, 13, children[1].Start().Day())
	assert.Equal(t, 0, children[1].Start().Hour())
	assert.Equal(t, iv.Days(), children[0].Days()+children[1].Days())
}

func TestBuild_Day_RepeatedFirstHourUsesEarlierPass(t *testing.T) {
	// GIVEN: Havana falls back at 2023-11-05 01:00 to 00:00, so 00:xx repeats
	// WHEN: Building the day window starting on Nov 5
	// THEN: It starts at the first 00:00, still on daylight time

	havana := mustLocation(t, "America/Havana")
	iv := mustBuild(t, 1, period.PrecisionDay, time.Date(2023, time.December, 4, 10, 0, 0, 0, havana))

	assert.Equal(t, 5, iv.Start().Day())
	assert.Equal(t, 0, iv.Start().Hour())
	_, offset := iv.Start().Zone()
	assert.Equal(t, -4*3600, offset)
	assert.Equal(t, 4, iv.Start().Add(-time.Second).Day())
	assert.Equal(t, 30, iv.Days())
}

func TestStartAndEndOfDay(t *testing.T) {
	santiago := mustLocation(t, "America/Santiago")

	tests := []struct {
		name      string
		day       time.Time
		wantStart time.Time
	}{
		{"plain day", date(2024, time.March, 15, 18, 0, 0), date(2024, time.March, 15, 0, 0, 0)},
		{"skipped midnight", time.Date(2018, time.August, 12, 15, 0, 0, 0, santiago), time.Date(2018, time.August, 12, 1, 0, 0, 0, santiago)},
		{"after repeated hour", time.Date(2018, time.May, 13, 15, 0, 0, 0, santiago), time.Date(2018, time.May, 13, 0, 0, 0, 0, santiago)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := period.StartOfDay(tt.day)
			assert.True(t, start.Equal(tt.wantStart), "start %s, want %s", start, tt.wantStart)

			prevEnd := period.EndOfDay(start.Add(-time.Hour))
			assert.True(t, prevEnd.Add(time.Second).Equal(start), "previous day ends %s", prevEnd)
		})
	}
}

func TestBuild_Month_WallClockNotUTC(t *testing.T) {
	tokyo := mustLocation(t, "Asia/Tokyo")

	iv := mustBuild(t, 1, period.PrecisionMonth, time.Date(2024, time.April, 1, 5, 0, 0, 0, tokyo))

	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, tokyo), iv.Start())
	assert.Equal(t, time.Date(2024, time.April, 30, 23, 59, 59, 0, tokyo), iv.End())
	assert.Equal(t, time.March, iv.Start().UTC().Month(), "UTC view of the start is still in March")
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestBuild_RejectsInvalidLength(t *testing.T) {
	for _, length := range []int{0, -1, -12} {
		iv, err := period.Build(length, period.PrecisionMonth, date(2024, time.March, 15, 0, 0, 0))

		assert.Nil(t, iv)
		assert.ErrorIs(t, err, period.ErrInvalidPeriodLength)
		var lenErr *period.InvalidPeriodLengthError
		require.ErrorAs(t, err, &lenErr)
		assert.Equal(t, length, lenErr.Length)
		assert.True(t, period.IsClientError(err))
	}
}

func TestBuild_RejectsInvalidPrecision(t *testing.T) {
	iv, err := period.Build(3, period.Precision("week"), date(2024, time.March, 15, 0, 0, 0))

	assert.Nil(t, iv)
	assert.ErrorIs(t, err, period.ErrInvalidPrecision)
	var precErr *period.InvalidPrecisionError
	require.ErrorAs(t, err, &precErr)
	assert.Equal(t, "week", precErr.Value)
}

func TestBuild_RejectsZeroReference(t *testing.T) {
	_, err := period.Build(3, period.PrecisionMonth, time.Time{})
	assert.ErrorIs(t, err, period.ErrMissingReference)
}

func TestParsePrecision(t *testing.T) {
	p, err := period.ParsePrecision(" MONTH ")
	require.NoError(t, err)
	assert.Equal(t, period.PrecisionMonth, p)

	p, err = period.ParsePrecision("day")
	require.NoError(t, err)
	assert.Equal(t, period.PrecisionDay, p)

	_, err = period.ParsePrecision("week")
	assert.ErrorIs(t, err, period.ErrInvalidPrecision)
}

// =============================================================================
// BUILDER
// =============================================================================

func TestBuilder_DefaultsToClockInOutputLocation(t *testing.T) {
	// GIVEN: It is 2024-03-31 20:00 UTC, already April 1st in Tokyo
	// WHEN: Building the current month with Tokyo as output location
	// THEN: The interval is April in Tokyo wall clock

	tokyo := mustLocation(t, "Asia/Tokyo")
	b := period.NewBuilder(
		period.WithClock(period.FixedClock{At: date(2024, time.March, 31, 20, 0, 0)}),
		period.WithLocation(tokyo),
	)

	iv, err := b.Build(1, period.PrecisionMonth)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, tokyo), iv.Start())
	assert.Equal(t, tokyo, b.Location())
}

func TestBuilder_DefaultPeriod(t *testing.T) {
	b := period.NewBuilder(period.WithClock(period.FixedClock{At: date(2024, time.June, 18, 0, 0, 0)}))

	iv, err := b.Default()
	require.NoError(t, err)

	assert.Equal(t, period.DefaultPeriodLength, iv.PeriodLength())
	assert.Equal(t, period.PrecisionMonth, iv.Precision())
	assert.Equal(t, date(2024, time.January, 1, 0, 0, 0), iv.Start())
	assert.Equal(t, time.UTC, iv.Location())
}

func TestBuilder_BuildAtKeepsReferenceLocation(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	b := period.NewBuilder(period.WithClock(period.FixedClock{At: date(2020, time.January, 1, 0, 0, 0)}))

	ref := time.Date(2024, time.July, 4, 22, 0, 0, 0, ny)
	iv, err := b.BuildAt(1, period.PrecisionDay, ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.July, 4, 23, 59, 59, 0, ny), iv.End())

	fallback, err := b.BuildAt(1, period.PrecisionMonth, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, date(2020, time.January, 1, 0, 0, 0), fallback.Start())
}
