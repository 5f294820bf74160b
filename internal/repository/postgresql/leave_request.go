package postgresql

import (
	"context"
	"fmt"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type timeOffRequestRepository struct {
	db *database.DB
}

func NewTimeOffRequestRepository(db *database.DB) leave.RequestSource {
	return &timeOffRequestRepository{db: db}
}

// ApprovedRequests implements leave.RequestSource. A missing end date is read
// as the start date.
func (r *timeOffRequestRepository) ApprovedRequests(ctx context.Context, userID string, fromDay, toDay string) ([]leave.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, type, start_date::text, COALESCE(end_date, start_date)::text,
			   hours, status, approved_at, created_at, updated_at
		FROM time_off_requests
		WHERE user_id = $1
		  AND status = $2
		  AND start_date <= $4::date
		  AND GREATEST(start_date, end_date) >= $3::date
		ORDER BY start_date ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, leave.RequestStatusApproved, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query time-off requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.TimeOffRequest
	for rows.Next() {
		var tr leave.TimeOffRequest
		err := rows.Scan(
			&tr.ID,
			&tr.UserID,
			&tr.Type,
			&tr.StartDate,
			&tr.EndDate,
			&tr.Hours,
			&tr.Status,
			&tr.ApprovedAt,
			&tr.CreatedAt,
			&tr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off request: %w", err)
		}
		requests = append(requests, tr)
	}
	return requests, rows.Err()
}
