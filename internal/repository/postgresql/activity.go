package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) attendance.ActivitySource {
	return &activityRepository{db: db}
}

// MinuteSamples implements attendance.ActivitySource.
func (r *activityRepository) MinuteSamples(ctx context.Context, userID string, from, to time.Time) ([]attendance.ActivitySample, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, minute_start, active
		FROM activity_minutes
		WHERE user_id = $1 AND minute_start >= $2 AND minute_start < $3
		ORDER BY minute_start ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity minutes: %w", err)
	}
	defer rows.Close()

	var samples []attendance.ActivitySample
	for rows.Next() {
		var s attendance.ActivitySample
		if err := rows.Scan(&s.UserID, &s.MinuteStart, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan activity minute: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// SessionStarts implements attendance.ActivitySource.
func (r *activityRepository) SessionStarts(ctx context.Context, userID string, from, to time.Time) ([]attendance.SessionStart, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, id, started_at
		FROM work_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.SessionStart
	for rows.Next() {
		var s attendance.SessionStart
		if err := rows.Scan(&s.UserID, &s.SessionID, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
