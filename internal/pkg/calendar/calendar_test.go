package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays_OneEntryPerCalendarDay(t *testing.T) {
	cal := MustNew("America/Los_Angeles")

	cases := []struct {
		month string
		want  int
	}{
		{"2024-02", 29},
		{"2025-02", 28},
		{"2025-03", 31}, // spring forward
		{"2025-04", 30},
		{"2025-11", 30}, // fall back
		{"2025-12", 31},
	}
	for _, c := range cases {
		m, err := cal.ParseMonth(c.month)
		require.NoError(t, err)

		days := cal.Days(m)
		assert.Len(t, days, c.want, c.month)
		assert.Equal(t, m.Start, days[0].Start)
		assert.Equal(t, m.End, days[len(days)-1].End)
		for i := 1; i < len(days); i++ {
			assert.Equal(t, days[i-1].End, days[i].Start, "gap before %s", days[i].Key)
		}
	}
}

func TestDayOf_UsesZonedBoundaries(t *testing.T) {
	cal := MustNew("America/Los_Angeles")

	// 2025-01-15 06:30 UTC is still the 14th in Los Angeles.
	day := cal.DayOf(time.Date(2025, 1, 15, 6, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-01-14", day.Key)
	assert.Equal(t, time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC), day.End)
}

func TestDayOf_DSTDayLength(t *testing.T) {
	cal := MustNew("America/Los_Angeles")

	springForward, err := cal.ParseDay("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, springForward.End.Sub(springForward.Start))

	fallBack, err := cal.ParseDay("2025-11-02")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, fallBack.End.Sub(fallBack.Start))
}

func TestSpanDays(t *testing.T) {
	cal := MustNew("UTC")
	day := func(key string) Day {
		d, err := cal.ParseDay(key)
		require.NoError(t, err)
		return d
	}

	assert.Equal(t, 1, SpanDays(day("2025-01-10"), day("2025-01-10")))
	assert.Equal(t, 5, SpanDays(day("2025-01-30"), day("2025-02-03")))
	assert.Equal(t, 1, SpanDays(day("2025-01-10"), day("2025-01-05")), "reversed span clamps to one day")
	assert.Equal(t, -20, DaysBetween(day("2025-01-21"), day("2025-01-01")))
}

func TestQuarterOf(t *testing.T) {
	cal := MustNew("America/Los_Angeles")

	q := cal.QuarterOf(cal.MonthFor(2025, time.May))
	assert.Equal(t, "2025-Q2", q.Key)
	assert.Equal(t, "2025-04", q.Months[0].Key)
	assert.Equal(t, "2025-06", q.Months[2].Key)
	assert.Equal(t, cal.MonthFor(2025, time.April).Start, q.Start())
	assert.Equal(t, cal.MonthFor(2025, time.July).Start, q.End())
	assert.Equal(t, "America/Los_Angeles", cal.Location().String())
}

func TestAddMonths_CrossesYear(t *testing.T) {
	cal := MustNew("America/Los_Angeles")

	next := cal.AddMonths(cal.MonthFor(2025, time.December), 1)
	assert.Equal(t, "2026-01", next.Key)

	prev := cal.AddMonths(cal.MonthFor(2025, time.January), -1)
	assert.Equal(t, "2024-12", prev.Key)
	assert.Equal(t, "2024-12-31", cal.LastDay(prev).Key)
}

func TestNew_UnknownZone(t *testing.T) {
	_, err := New("Mars/Olympus_Mons")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, c.Location().String())
}
