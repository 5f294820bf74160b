package attendance

import (
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
)

// ActivitySample is one minute of desktop activity.
type ActivitySample struct {
	UserID      string
	MinuteStart time.Time
	Active      bool
}

type SessionStart struct {
	UserID    string
	SessionID string
	StartedAt time.Time
}

// FactStatus enum
type FactStatus string

const (
	FactStatusPending   FactStatus = "PENDING"
	FactStatusFinalized FactStatus = "FINALIZED"
)

// DaySnapshot is the reconciled view of one zoned calendar day.
// All hour fields are >= 0.
type DaySnapshot struct {
	Date          string                  `json:"date"`
	AssignedHours float64                 `json:"assigned_hours"`
	WorkedHours   float64                 `json:"worked_hours"`
	PTOHours      float64                 `json:"pto_hours"`
	NonPTOHours   float64                 `json:"non_pto_hours"`
	MakeUpHours   float64                 `json:"make_up_hours"`
	TardyMinutes  int                     `json:"tardy_minutes"`
	IsHoliday     bool                    `json:"is_holiday"`
	Schedule      *employee.ScheduleEntry `json:"schedule"`
	Notes         []string                `json:"notes"`
}

// MonthlyComputation aggregates the day snapshots of one zoned month.
type MonthlyComputation struct {
	AssignedHours        float64
	WorkedHours          float64
	PTOHours             float64
	NonPTOAbsenceHours   float64 // uncovered absence plus raw non-PTO hours
	TardyMinutes         int
	RawMakeUpHours       float64
	MatchedMakeUpHours   float64
	UncoveredAfterMakeUp float64
	IsPerfect            bool
	Reasons              []string
	Days                 []DaySnapshot
}

// MonthFact is the persisted computation, unique on (UserID, MonthStart).
type MonthFact struct {
	ID         string
	UserID     string
	MonthStart time.Time
	MonthKey   string
	Status     FactStatus
	MonthlyComputation
	FinalizedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (f MonthFact) IsFinalized() bool {
	return f.Status == FactStatusFinalized
}
