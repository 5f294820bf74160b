package leave

import "context"

// RequestSource reads approved time-off requests.
type RequestSource interface {
	// ApprovedRequests returns approved requests of the user whose span
	// overlaps the inclusive day-key range [fromDay, toDay].
	ApprovedRequests(ctx context.Context, userID string, fromDay, toDay string) ([]TimeOffRequest, error)
}
