package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
)

// DailyActivity is the activity of one zoned day.
type DailyActivity struct {
	ActiveMinutes   int
	EarliestSession *time.Time
}

// WorkedHours is active minutes in hours, rounded to 2 decimals.
func (d DailyActivity) WorkedHours() float64 {
	return round2(float64(d.ActiveMinutes) / 60)
}

// AggregateActivity groups samples and session starts by zoned day. A minute
// reported by several sessions counts once, as active if any report says so.
func AggregateActivity(cal *calendar.Calendar, samples []attendance.ActivitySample, sessions []attendance.SessionStart) map[string]DailyActivity {
	days := make(map[string]DailyActivity)

	active := make(map[int64]bool, len(samples))
	for _, s := range samples {
		minute := s.MinuteStart.Truncate(time.Minute).Unix()
		if s.Active {
			active[minute] = true
		} else if _, seen := active[minute]; !seen {
			active[minute] = false
		}
	}
	for minute, isActive := range active {
		if !isActive {
			continue
		}
		key := cal.DayOf(time.Unix(minute, 0)).Key
		d := days[key]
		d.ActiveMinutes++
		days[key] = d
	}

	for _, s := range sessions {
		key := cal.DayOf(s.StartedAt).Key
		d := days[key]
		if d.EarliestSession == nil || s.StartedAt.Before(*d.EarliestSession) {
			started := s.StartedAt
			d.EarliestSession = &started
		}
		days[key] = d
	}
	return days
}

// TardyMinutes is how many whole minutes the first session of day started
// after the scheduled start. It is 0 without an enabled entry with a start
// offset, or without a session.
func TardyMinutes(day calendar.Day, entry *employee.ScheduleEntry, earliest *time.Time) int {
	if entry == nil || !entry.IsEnabled || entry.StartMinutes == nil || earliest == nil {
		return 0
	}
	scheduled := day.Start.Add(time.Duration(*entry.StartMinutes) * time.Minute)
	late := earliest.Sub(scheduled)
	if late <= 0 {
		return 0
	}
	return int(late / time.Minute)
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
