package calendar

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is the operational zone used when none is configured.
	DefaultTimezone = "America/Los_Angeles"

	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Calendar resolves zoned day, month and quarter boundaries.
// Every boundary it returns is expressed as a UTC instant.
type Calendar struct {
	loc *time.Location
}

// Day is one zoned calendar day. End is exclusive (start of the next day).
type Day struct {
	Key   string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Month is one zoned calendar month. End is exclusive (start of the next month).
type Month struct {
	Key   string
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (m Month) Contains(t time.Time) bool {
	return !t.Before(m.Start) && t.Before(m.End)
}

// Quarter is a calendar quarter made of three consecutive months.
type Quarter struct {
	Key    string
	Months [3]Month
}

// Start returns the first instant of the quarter's first month.
func (q Quarter) Start() time.Time { return q.Months[0].Start }

// End returns the exclusive end of the quarter's last month.
func (q Quarter) End() time.Time { return q.Months[2].End }

// New loads the IANA zone name. An empty name falls back to DefaultTimezone.
func New(zoneName string) (*Calendar, error) {
	if zoneName == "" {
		zoneName = DefaultTimezone
	}
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zoneName, err)
	}
	return &Calendar{loc: loc}, nil
}

// MustNew is New for static zone names; it panics on an unknown zone.
func MustNew(zoneName string) *Calendar {
	c, err := New(zoneName)
	if err != nil {
		panic(err)
	}
	return c
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// In converts t to the calendar's zone.
func (c *Calendar) In(t time.Time) time.Time { return t.In(c.loc) }

// DayOf returns the zoned day containing t.
func (c *Calendar) DayOf(t time.Time) Day {
	local := t.In(c.loc)
	return c.dayFor(local.Year(), local.Month(), local.Day())
}

// DayFor returns the zoned day for a calendar date. Out of range values
// normalize the way time.Date does.
func (c *Calendar) DayFor(year int, month time.Month, day int) Day {
	return c.dayFor(year, month, day)
}

func (c *Calendar) dayFor(year int, month time.Month, day int) Day {
	start := time.Date(year, month, day, 0, 0, 0, 0, c.loc)
	end := time.Date(year, month, day+1, 0, 0, 0, 0, c.loc)
	return Day{
		Key:   start.Format(DayLayout),
		Start: start.UTC(),
		End:   end.UTC(),
	}
}

// ParseDay parses a YYYY-MM-DD key as a zoned day.
func (c *Calendar) ParseDay(key string) (Day, error) {
	t, err := time.ParseInLocation(DayLayout, key, c.loc)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", key, err)
	}
	return c.dayFor(t.Year(), t.Month(), t.Day()), nil
}

// NextDay returns the zoned day following d.
func (c *Calendar) NextDay(d Day) Day {
	return c.DayOf(d.End)
}

// MonthOf returns the zoned month containing t.
func (c *Calendar) MonthOf(t time.Time) Month {
	local := t.In(c.loc)
	return c.MonthFor(local.Year(), local.Month())
}

// MonthFor returns the zoned month for year/month.
func (c *Calendar) MonthFor(year int, month time.Month) Month {
	start := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	end := time.Date(year, month+1, 1, 0, 0, 0, 0, c.loc)
	return Month{
		Key:   start.Format(MonthLayout),
		Year:  start.Year(),
		Month: start.Month(),
		Start: start.UTC(),
		End:   end.UTC(),
	}
}

// ParseMonth parses a YYYY-MM key as a zoned month.
func (c *Calendar) ParseMonth(key string) (Month, error) {
	t, err := time.ParseInLocation(MonthLayout, key, c.loc)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", key, err)
	}
	return c.MonthFor(t.Year(), t.Month()), nil
}

// AddMonths shifts m by n calendar months.
func (c *Calendar) AddMonths(m Month, n int) Month {
	return c.MonthFor(m.Year, m.Month+time.Month(n))
}

// Days returns every zoned day of m in order, first to last.
func (c *Calendar) Days(m Month) []Day {
	days := make([]Day, 0, 31)
	for d := 1; ; d++ {
		day := c.dayFor(m.Year, m.Month, d)
		if !day.Start.Before(m.End) {
			break
		}
		days = append(days, day)
	}
	return days
}

// LastDay returns the last zoned day of m.
func (c *Calendar) LastDay(m Month) Day {
	return c.DayOf(m.End.Add(-time.Nanosecond))
}

// DaysBetween returns the signed number of calendar days from a to b,
// counted on the zoned date keys so DST transitions do not skew it.
func DaysBetween(a, b Day) int {
	ta, errA := time.Parse(DayLayout, a.Key)
	tb, errB := time.Parse(DayLayout, b.Key)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// SpanDays counts the days in the inclusive span [from, to]. Spans shorter
// than one day, including reversed ones, count as one day.
func SpanDays(from, to Day) int {
	n := DaysBetween(from, to) + 1
	if n < 1 {
		return 1
	}
	return n
}

// NoonOn returns local noon of the given date as a UTC instant.
func (c *Calendar) NoonOn(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, c.loc).UTC()
}

// QuarterOf returns the calendar quarter containing m.
func (c *Calendar) QuarterOf(m Month) Quarter {
	firstMonth := time.Month((int(m.Month)-1)/3*3 + 1)
	first := c.MonthFor(m.Year, firstMonth)
	return Quarter{
		Key: fmt.Sprintf("%d-Q%d", m.Year, (int(m.Month)-1)/3+1),
		Months: [3]Month{
			first,
			c.AddMonths(first, 1),
			c.AddMonths(first, 2),
		},
	}
}
