package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for bonuses, periods and checks.
// Upserts are keyed by the natural composite keys, never by ID.
type PayrollRepository interface {
	// Bonuses
	UpsertBonus(ctx context.Context, bonus Bonus) (Bonus, error)
	GetBonusByID(ctx context.Context, id string) (Bonus, error)
	GetBonusByKey(ctx context.Context, userID string, bonusType BonusType, sourceMonth time.Time) (Bonus, error)
	ListBonusesByUser(ctx context.Context, userID string) ([]Bonus, error)
	// ListApprovedBonusesPayableOn returns APPROVED bonuses of every user whose
	// payable date equals payDate.
	ListApprovedBonusesPayableOn(ctx context.Context, payDate time.Time) ([]Bonus, error)
	DetachBonusesFromCheck(ctx context.Context, checkID string) error
	AttachBonusesToCheck(ctx context.Context, checkID string, bonusIDs []string) error
	// MarkBonusesPaidForPeriod marks every bonus attached to a check of the period.
	MarkBonusesPaidForPeriod(ctx context.Context, periodID string, paidAt time.Time) error

	// Periods
	// EnsurePeriod inserts the period in DRAFT unless (start, end) exists.
	// created is false when the existing row was returned.
	EnsurePeriod(ctx context.Context, period Period) (p Period, created bool, err error)
	GetPeriodByID(ctx context.Context, id string) (Period, error)
	UpdatePeriodStatus(ctx context.Context, id string, status PeriodStatus, paidAt *time.Time) (Period, error)

	// Checks
	UpsertCheck(ctx context.Context, check Check) (Check, error)
	GetCheck(ctx context.Context, periodID, userID string) (Check, error)
	ListChecksByPeriod(ctx context.Context, periodID string) ([]Check, error)
	DeleteCheck(ctx context.Context, periodID, userID string) error
	MarkChecksPaid(ctx context.Context, periodID string, paidAt time.Time) error
}
