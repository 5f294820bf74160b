package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        string
	FullName  string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleEntry is the template for one weekday. StartMinutes and EndMinutes
// are minutes since local midnight.
type ScheduleEntry struct {
	Weekday       int      `json:"weekday"` // 0=Sunday, ..., 6=Saturday
	IsEnabled     bool     `json:"is_enabled"`
	StartMinutes  *int     `json:"start_minutes,omitempty"`
	EndMinutes    *int     `json:"end_minutes,omitempty"`
	ExpectedHours *float64 `json:"expected_hours,omitempty"`
}

// WeeklySchedule is indexed by time.Weekday.
type WeeklySchedule [7]ScheduleEntry

// Entry returns the template for wd.
func (s WeeklySchedule) Entry(wd time.Weekday) ScheduleEntry {
	return s[int(wd)]
}

// Config is an effective-dated payroll and schedule configuration.
// A user may have many; the one in force on a date is the latest whose
// EffectiveOn is not after that date.
type Config struct {
	ID                       string
	UserID                   string
	EffectiveOn              time.Time
	Schedule                 WeeklySchedule
	BaseSemiMonthlySalary    decimal.Decimal
	MonthlyAttendanceBonus   decimal.Decimal
	QuarterlyAttendanceBonus decimal.Decimal
	KPIBonusEnabled          bool
	KPIBonusDefaultAmount    decimal.Decimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
