package attendance

import (
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
)

var la = calendar.MustNew("America/Los_Angeles")

func ptr[T any](v T) *T { return &v }

// weekdaySchedule enables the given weekdays with the same template.
func weekdaySchedule(expectedHours *float64, startMinutes *int, days ...time.Weekday) employee.WeeklySchedule {
	var s employee.WeeklySchedule
	for i := range s {
		s[i].Weekday = i
	}
	for _, wd := range days {
		s[wd].IsEnabled = true
		s[wd].StartMinutes = startMinutes
		s[wd].ExpectedHours = expectedHours
	}
	return s
}

var workWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func localTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, la.Location())
}

// activeRun returns n consecutive active minutes starting at start.
func activeRun(userID string, start time.Time, n int) []attendance.ActivitySample {
	out := make([]attendance.ActivitySample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, attendance.ActivitySample{
			UserID:      userID,
			MinuteStart: start.Add(time.Duration(i) * time.Minute),
			Active:      true,
		})
	}
	return out
}

func countWeekdays(cal *calendar.Calendar, m calendar.Month) int {
	n := 0
	for _, d := range cal.Days(m) {
		wd := cal.In(d.Start).Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
