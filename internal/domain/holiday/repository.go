package holiday

import "context"

type HolidayRepository interface {
	// ListBetween returns holidays whose date lies in the inclusive day-key range.
	ListBetween(ctx context.Context, fromDay, toDay string) ([]Holiday, error)
}
