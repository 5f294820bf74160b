package attendance

import (
	"fmt"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/holiday"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	employeeservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/employee"
)

const (
	// MakeUpMonthlyCapHours is the most make-up time one month can apply.
	MakeUpMonthlyCapHours = 8.0
	// TardyThresholdMinutes is the largest monthly tardiness still perfect.
	TardyThresholdMinutes = 90

	NoteNoRecordedWork = "No recorded work for scheduled day"

	ReasonTardyExceeded    = "Tardy minutes exceeded 90"
	ReasonUncoveredAbsence = "Uncovered absence remaining after applying make-up hours"
)

// ReconcileInput is everything one user's month is computed from. Configs
// may be empty; every source may be nil.
type ReconcileInput struct {
	Calendar *calendar.Calendar
	Month    calendar.Month
	Configs  *employeeservice.ConfigIndex
	Holidays []holiday.Holiday
	Requests []leave.TimeOffRequest
	Samples  []attendance.ActivitySample
	Sessions []attendance.SessionStart
}

// Reconcile produces one snapshot per zoned day of the month and the month
// totals. It is a pure function of its input.
func Reconcile(in ReconcileInput) attendance.MonthlyComputation {
	cal := in.Calendar
	configs := in.Configs
	if configs == nil {
		configs = employeeservice.NewConfigIndex(nil)
	}

	holidays := make(map[string]holiday.Holiday, len(in.Holidays))
	for _, h := range in.Holidays {
		holidays[h.Date] = h
	}
	buckets := AllocateRequests(cal, in.Month, in.Requests)
	activity := AggregateActivity(cal, in.Samples, in.Sessions)

	var (
		assignedTotal, workedTotal, ptoTotal float64
		nonPTOTotal, makeUpTotal             float64
		tardyTotal                           int
	)

	days := cal.Days(in.Month)
	snapshots := make([]attendance.DaySnapshot, 0, len(days))
	for _, day := range days {
		var entry *employee.ScheduleEntry
		if cfg := configs.EffectiveAt(day.Start); cfg != nil {
			e := cfg.Schedule.Entry(cal.In(day.Start).Weekday())
			entry = &e
		}
		h, isHoliday := holidays[day.Key]

		assigned := 0.0
		if entry != nil && entry.IsEnabled && !isHoliday && entry.ExpectedHours != nil {
			assigned = max(0, *entry.ExpectedHours)
		}

		act := activity[day.Key]
		worked := act.WorkedHours()
		b := buckets[day.Key]

		absenceBeforeMakeUp := max(0, assigned-(worked+b.PTO+b.NonPTO))
		nonPTOForDay := b.NonPTO + absenceBeforeMakeUp
		tardy := TardyMinutes(day, entry, act.EarliestSession)

		var notes []string
		if isHoliday {
			notes = append(notes, holidayNote(h))
		}
		if assigned > 0 && worked == 0 && !isHoliday && b.PTO == 0 {
			notes = append(notes, NoteNoRecordedWork)
		}
		if tardy > 0 {
			notes = append(notes, fmt.Sprintf("Late arrival: %d minutes", tardy))
		}

		snapshots = append(snapshots, attendance.DaySnapshot{
			Date:          day.Key,
			AssignedHours: round2(assigned),
			WorkedHours:   worked,
			PTOHours:      round2(b.PTO),
			NonPTOHours:   round2(nonPTOForDay),
			MakeUpHours:   round2(b.MakeUp),
			TardyMinutes:  tardy,
			IsHoliday:     isHoliday,
			Schedule:      entry,
			Notes:         notes,
		})

		assignedTotal += assigned
		workedTotal += worked
		ptoTotal += b.PTO
		nonPTOTotal += nonPTOForDay
		makeUpTotal += b.MakeUp
		tardyTotal += tardy
	}

	nonPTOTotal = round2(nonPTOTotal)
	makeUpTotal = round2(makeUpTotal)
	matched := min(max(min(makeUpTotal, nonPTOTotal), 0), MakeUpMonthlyCapHours)
	uncovered := round2(max(0, nonPTOTotal-matched))

	reasons := make([]string, 0, 2)
	if tardyTotal > TardyThresholdMinutes {
		reasons = append(reasons, ReasonTardyExceeded)
	}
	if uncovered > 0 {
		reasons = append(reasons, ReasonUncoveredAbsence)
	}

	return attendance.MonthlyComputation{
		AssignedHours:        round2(assignedTotal),
		WorkedHours:          round2(workedTotal),
		PTOHours:             round2(ptoTotal),
		NonPTOAbsenceHours:   nonPTOTotal,
		TardyMinutes:         tardyTotal,
		RawMakeUpHours:       makeUpTotal,
		MatchedMakeUpHours:   round2(matched),
		UncoveredAfterMakeUp: uncovered,
		IsPerfect:            len(reasons) == 0,
		Reasons:              reasons,
		Days:                 snapshots,
	}
}

func holidayNote(h holiday.Holiday) string {
	note := "Holiday"
	if h.IsPaid {
		note = "Paid holiday"
	}
	if h.Name != "" {
		note += ": " + h.Name
	}
	return note
}
