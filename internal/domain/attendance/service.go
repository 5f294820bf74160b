package attendance

import "context"

// AttendanceService reconciles and persists monthly attendance.
type AttendanceService interface {
	// RecalculateMonth recomputes and upserts the month fact. Without Finalize
	// the fact goes back to PENDING even if it was FINALIZED before.
	RecalculateMonth(ctx context.Context, req RecalculateMonthRequest) (MonthFactResponse, error)

	// FinalizeMonth recomputes with finalize and synchronizes attendance bonuses
	// in the same transaction.
	FinalizeMonth(ctx context.Context, req FinalizeMonthRequest) (MonthFactResponse, error)

	GetMonthFact(ctx context.Context, userID, month string) (MonthFactResponse, error)
	ListMonthFacts(ctx context.Context, filter MonthFactFilter) ([]MonthFactResponse, error)
}

// BonusSynchronizer reacts to a finalized month.
type BonusSynchronizer interface {
	SyncAttendanceBonuses(ctx context.Context, userID, month string, actorID *string) error
}
