package attendance

import (
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
)

// MakeUpClaimWindowDays bounds how far a make-up approval may sit from the
// request start, in either direction.
const MakeUpClaimWindowDays = 14

// HourBucket is the approved leave booked on one day.
type HourBucket struct {
	PTO    float64
	NonPTO float64
	MakeUp float64
}

// AllocateRequests spreads approved request hours evenly over the zoned days
// each request covers inside month. Requests crossing the month edge only
// contribute the share of their hours that falls inside the month. Days with
// no request are absent from the result.
func AllocateRequests(cal *calendar.Calendar, month calendar.Month, requests []leave.TimeOffRequest) map[string]HourBucket {
	buckets := make(map[string]HourBucket)
	monthFirst := cal.DayOf(month.Start)
	monthLast := cal.LastDay(month)

	for _, req := range requests {
		start, err := cal.ParseDay(req.StartDate)
		if err != nil {
			continue
		}
		end, err := cal.ParseDay(req.EndDate)
		if err != nil || calendar.DaysBetween(start, end) < 0 {
			end = start
		}

		switch req.Type {
		case leave.RequestTypePTO, leave.RequestTypeNonPTO:
		case leave.RequestTypeMakeUp:
			if !withinClaimWindow(cal, req, start) {
				continue
			}
		default:
			continue
		}

		clipStart, clipEnd := start, end
		if calendar.DaysBetween(clipStart, monthFirst) > 0 {
			clipStart = monthFirst
		}
		if calendar.DaysBetween(monthLast, clipEnd) > 0 {
			clipEnd = monthLast
		}
		if calendar.DaysBetween(clipStart, clipEnd) < 0 {
			continue
		}

		totalDays := calendar.SpanDays(start, end)
		clippedDays := calendar.SpanDays(clipStart, clipEnd)
		hours := max(0, req.Hours)
		proportional := hours * float64(clippedDays) / float64(totalDays)
		perDay := proportional / float64(clippedDays)

		for day := clipStart; ; day = cal.NextDay(day) {
			b := buckets[day.Key]
			switch req.Type {
			case leave.RequestTypePTO:
				b.PTO += perDay
			case leave.RequestTypeNonPTO:
				b.NonPTO += perDay
			case leave.RequestTypeMakeUp:
				b.MakeUp += perDay
			}
			buckets[day.Key] = b
			if day.Key == clipEnd.Key {
				break
			}
		}
	}
	return buckets
}

func withinClaimWindow(cal *calendar.Calendar, req leave.TimeOffRequest, start calendar.Day) bool {
	if req.ApprovedAt == nil {
		return false
	}
	diff := calendar.DaysBetween(start, cal.DayOf(*req.ApprovedAt))
	if diff < 0 {
		diff = -diff
	}
	return diff <= MakeUpClaimWindowDays
}
