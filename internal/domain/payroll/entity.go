package payroll

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BonusType enum
type BonusType string

const (
	BonusTypeMonthlyAttendance   BonusType = "MONTHLY_ATTENDANCE"
	BonusTypeQuarterlyAttendance BonusType = "QUARTERLY_ATTENDANCE"
	BonusTypeKPI                 BonusType = "KPI"
)

// BonusStatus enum
type BonusStatus string

const (
	BonusStatusPending  BonusStatus = "PENDING"
	BonusStatusEligible BonusStatus = "ELIGIBLE"
	BonusStatusApproved BonusStatus = "APPROVED"
	BonusStatusDenied   BonusStatus = "DENIED"
	BonusStatusPaid     BonusStatus = "PAID"
)

// Bonus is unique on (UserID, Type, SourceMonth). SourceMonth is the zoned
// month start, or the quarter start for quarterly bonuses.
type Bonus struct {
	ID             string
	UserID         string
	Type           BonusType
	SourceMonth    time.Time
	Status         BonusStatus
	Amount         decimal.Decimal
	PayableDate    *time.Time
	QuarterKey     *string
	Reason         *string
	DecidedAt      *time.Time
	DecisionByID   *string
	PayrollCheckID *string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PeriodStatus enum. Transitions only move forward: DRAFT, APPROVED, PAID.
type PeriodStatus string

const (
	PeriodStatusDraft    PeriodStatus = "DRAFT"
	PeriodStatusApproved PeriodStatus = "APPROVED"
	PeriodStatusPaid     PeriodStatus = "PAID"
)

func (s PeriodStatus) rank() int {
	switch s {
	case PeriodStatusDraft:
		return 1
	case PeriodStatusApproved:
		return 2
	case PeriodStatusPaid:
		return 3
	}
	return 0
}

func (s PeriodStatus) IsValid() bool {
	return s.rank() > 0
}

// CanMoveTo reports whether next is a forward move from s.
func (s PeriodStatus) CanMoveTo(next PeriodStatus) bool {
	return next.IsValid() && next.rank() > s.rank()
}

// Period is a semi-monthly pay period, unique on (PeriodStart, PeriodEnd).
// PeriodStart is the start of its first zoned day and PeriodEnd the start of
// the day after its last one.
type Period struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	StartDate   string // zoned YYYY-MM-DD, inclusive
	EndDate     string // zoned YYYY-MM-DD, inclusive
	PayDate     time.Time
	Status      PeriodStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Check is one employee's pay for one period, unique on (PeriodID, UserID).
type Check struct {
	ID                       string
	PeriodID                 string
	UserID                   string
	BaseAmount               decimal.Decimal
	MonthlyAttendanceBonus   decimal.Decimal
	DeferredMonthlyBonus     decimal.Decimal // reserved, always zero
	QuarterlyAttendanceBonus decimal.Decimal
	KPIBonus                 decimal.Decimal
	TotalAmount              decimal.Decimal
	Status                   PeriodStatus
	PaidAt                   *time.Time
	Snapshot                 json.RawMessage
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
