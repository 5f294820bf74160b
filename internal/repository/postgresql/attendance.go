package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type monthFactRepository struct {
	db *database.DB
}

func NewMonthFactRepository(db *database.DB) attendance.MonthFactRepository {
	return &monthFactRepository{db: db}
}

const monthFactColumns = `
	id, user_id, month_start, month_key, status,
	assigned_hours, worked_hours, pto_hours, non_pto_absence_hours, tardy_minutes,
	raw_make_up_hours, matched_make_up_hours, uncovered_after_make_up, is_perfect,
	reasons, days, finalized_at, created_at, updated_at`

func scanMonthFact(row pgx.Row) (attendance.MonthFact, error) {
	var f attendance.MonthFact
	var reasons, days []byte
	err := row.Scan(
		&f.ID, &f.UserID, &f.MonthStart, &f.MonthKey, &f.Status,
		&f.AssignedHours, &f.WorkedHours, &f.PTOHours, &f.NonPTOAbsenceHours, &f.TardyMinutes,
		&f.RawMakeUpHours, &f.MatchedMakeUpHours, &f.UncoveredAfterMakeUp, &f.IsPerfect,
		&reasons, &days, &f.FinalizedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return attendance.MonthFact{}, err
	}
	if err := json.Unmarshal(reasons, &f.Reasons); err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to decode reasons: %w", err)
	}
	if err := json.Unmarshal(days, &f.Days); err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to decode day snapshots: %w", err)
	}
	return f, nil
}

// Upsert implements attendance.MonthFactRepository.
func (r *monthFactRepository) Upsert(ctx context.Context, fact attendance.MonthFact) (attendance.MonthFact, error) {
	q := GetQuerier(ctx, r.db)

	reasons := fact.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to encode reasons: %w", err)
	}
	days := fact.Days
	if days == nil {
		days = []attendance.DaySnapshot{}
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to encode day snapshots: %w", err)
	}

	query := `
		INSERT INTO attendance_month_facts (
			user_id, month_start, month_key, status,
			assigned_hours, worked_hours, pto_hours, non_pto_absence_hours, tardy_minutes,
			raw_make_up_hours, matched_make_up_hours, uncovered_after_make_up, is_perfect,
			reasons, days, finalized_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, month_start) DO UPDATE SET
			month_key = EXCLUDED.month_key,
			status = EXCLUDED.status,
			assigned_hours = EXCLUDED.assigned_hours,
			worked_hours = EXCLUDED.worked_hours,
			pto_hours = EXCLUDED.pto_hours,
			non_pto_absence_hours = EXCLUDED.non_pto_absence_hours,
			tardy_minutes = EXCLUDED.tardy_minutes,
			raw_make_up_hours = EXCLUDED.raw_make_up_hours,
			matched_make_up_hours = EXCLUDED.matched_make_up_hours,
			uncovered_after_make_up = EXCLUDED.uncovered_after_make_up,
			is_perfect = EXCLUDED.is_perfect,
			reasons = EXCLUDED.reasons,
			days = EXCLUDED.days,
			finalized_at = EXCLUDED.finalized_at,
			updated_at = NOW()
		RETURNING ` + monthFactColumns

	saved, err := scanMonthFact(q.QueryRow(ctx, query,
		fact.UserID, fact.MonthStart, fact.MonthKey, fact.Status,
		fact.AssignedHours, fact.WorkedHours, fact.PTOHours, fact.NonPTOAbsenceHours, fact.TardyMinutes,
		fact.RawMakeUpHours, fact.MatchedMakeUpHours, fact.UncoveredAfterMakeUp, fact.IsPerfect,
		reasonsJSON, daysJSON, fact.FinalizedAt,
	))
	if err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to upsert month fact: %w", err)
	}
	return saved, nil
}

// GetByID implements attendance.MonthFactRepository.
func (r *monthFactRepository) GetByID(ctx context.Context, id string) (attendance.MonthFact, error) {
	if !isUUID(id) {
		return attendance.MonthFact{}, attendance.ErrMonthFactNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + monthFactColumns + ` FROM attendance_month_facts WHERE id = $1`

	fact, err := scanMonthFact(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.MonthFact{}, attendance.ErrMonthFactNotFound
		}
		return attendance.MonthFact{}, fmt.Errorf("failed to get month fact: %w", err)
	}
	return fact, nil
}

// GetByUserMonth implements attendance.MonthFactRepository.
func (r *monthFactRepository) GetByUserMonth(ctx context.Context, userID string, monthStart time.Time) (attendance.MonthFact, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + monthFactColumns + ` FROM attendance_month_facts WHERE user_id = $1 AND month_start = $2`

	fact, err := scanMonthFact(q.QueryRow(ctx, query, userID, monthStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.MonthFact{}, attendance.ErrMonthFactNotFound
		}
		return attendance.MonthFact{}, fmt.Errorf("failed to get month fact: %w", err)
	}
	return fact, nil
}

// ListByUserRange implements attendance.MonthFactRepository.
func (r *monthFactRepository) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.MonthFact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + monthFactColumns + `
		FROM attendance_month_facts
		WHERE user_id = $1 AND month_start >= $2 AND month_start < $3
		ORDER BY month_start ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list month facts: %w", err)
	}
	defer rows.Close()

	var facts []attendance.MonthFact
	for rows.Next() {
		f, err := scanMonthFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan month fact: %w", err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate month facts: %w", err)
	}
	return facts, nil
}
