package attendance

import (
	"context"
	"time"
)

// ActivitySource reads raw desktop activity. Ranges are [from, to).
type ActivitySource interface {
	MinuteSamples(ctx context.Context, userID string, from, to time.Time) ([]ActivitySample, error)
	SessionStarts(ctx context.Context, userID string, from, to time.Time) ([]SessionStart, error)
}

// MonthFactRepository persists month facts keyed by (user_id, month_start).
type MonthFactRepository interface {
	// Upsert replaces every computed field of the (user, month) row or inserts it.
	Upsert(ctx context.Context, fact MonthFact) (MonthFact, error)

	GetByID(ctx context.Context, id string) (MonthFact, error)
	GetByUserMonth(ctx context.Context, userID string, monthStart time.Time) (MonthFact, error)

	// ListByUserRange returns facts with month_start in [from, to) ordered by month_start.
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]MonthFact, error)
}
