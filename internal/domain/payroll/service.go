package payroll

import (
	"context"
	"time"
)

// BonusService decides attendance and KPI bonuses.
type BonusService interface {
	// SyncAttendanceBonuses applies the monthly and quarterly rules for a
	// FINALIZED month fact. PAID bonuses are left untouched.
	SyncAttendanceBonuses(ctx context.Context, userID, month string, actorID *string) error

	// EnsureKPICandidate upserts a PENDING KPI bonus for the month. Decided
	// bonuses are returned unchanged.
	EnsureKPICandidate(ctx context.Context, req EnsureKPICandidateRequest) (BonusResponse, error)

	// DecideKPIBonus approves or denies a KPI bonus. Re-deciding overwrites.
	DecideKPIBonus(ctx context.Context, req DecideBonusRequest) (BonusResponse, error)

	OverrideBonusAmount(ctx context.Context, req OverrideBonusAmountRequest) (BonusResponse, error)
	ListBonuses(ctx context.Context, userID string) ([]BonusResponse, error)
}

// SettlementService builds semi-monthly payroll checks.
type SettlementService interface {
	// ResolvePeriod returns the unsaved period containing t.
	ResolvePeriod(t time.Time) Period

	EnsurePayrollPeriod(ctx context.Context, t time.Time, actorID *string) (PeriodResponse, error)
	RecalcPayrollPeriod(ctx context.Context, periodID string, actorID *string) ([]CheckResponse, error)
	UpdatePeriodStatus(ctx context.Context, req UpdatePeriodStatusRequest) (PeriodResponse, error)

	// EnsureAndRecalcPeriod ensures the period containing t and recalculates it
	// unless it is already PAID.
	EnsureAndRecalcPeriod(ctx context.Context, t time.Time) (PeriodResponse, error)

	GetPeriod(ctx context.Context, id string) (PeriodResponse, error)
	ListChecks(ctx context.Context, periodID string) ([]CheckResponse, error)
	GetCheck(ctx context.Context, periodID, userID string) (CheckResponse, error)
}
