package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== BONUSES ==========

const bonusColumns = `
	id, user_id, type, source_month, status, amount, payable_date, quarter_key,
	reason, decided_at, decision_by_id, payroll_check_id, paid_at, created_at, updated_at`

func scanBonus(row pgx.Row) (payroll.Bonus, error) {
	var b payroll.Bonus
	err := row.Scan(
		&b.ID, &b.UserID, &b.Type, &b.SourceMonth, &b.Status, &b.Amount, &b.PayableDate, &b.QuarterKey,
		&b.Reason, &b.DecidedAt, &b.DecisionByID, &b.PayrollCheckID, &b.PaidAt, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func collectBonuses(rows pgx.Rows) ([]payroll.Bonus, error) {
	defer rows.Close()
	var bonuses []payroll.Bonus
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}

func (r *payrollRepository) UpsertBonus(ctx context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_bonuses (
			user_id, type, source_month, status, amount, payable_date, quarter_key,
			reason, decided_at, decision_by_id, payroll_check_id, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, type, source_month) DO UPDATE SET
			status = EXCLUDED.status,
			amount = EXCLUDED.amount,
			payable_date = EXCLUDED.payable_date,
			quarter_key = EXCLUDED.quarter_key,
			reason = EXCLUDED.reason,
			decided_at = EXCLUDED.decided_at,
			decision_by_id = EXCLUDED.decision_by_id,
			payroll_check_id = EXCLUDED.payroll_check_id,
			paid_at = EXCLUDED.paid_at,
			updated_at = NOW()
		RETURNING ` + bonusColumns

	saved, err := scanBonus(q.QueryRow(ctx, query,
		b.UserID, b.Type, b.SourceMonth, b.Status, b.Amount, b.PayableDate, b.QuarterKey,
		b.Reason, b.DecidedAt, b.DecisionByID, b.PayrollCheckID, b.PaidAt,
	))
	if err != nil {
		return payroll.Bonus{}, fmt.Errorf("failed to upsert bonus: %w", err)
	}
	return saved, nil
}

func (r *payrollRepository) GetBonusByID(ctx context.Context, id string) (payroll.Bonus, error) {
	if !isUUID(id) {
		return payroll.Bonus{}, payroll.ErrBonusNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bonusColumns + ` FROM payroll_bonuses WHERE id = $1`

	b, err := scanBonus(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to get bonus: %w", err)
	}
	return b, nil
}

func (r *payrollRepository) GetBonusByKey(ctx context.Context, userID string, bonusType payroll.BonusType, sourceMonth time.Time) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM payroll_bonuses
		WHERE user_id = $1 AND type = $2 AND source_month = $3
		FOR UPDATE
	`

	b, err := scanBonus(q.QueryRow(ctx, query, userID, bonusType, sourceMonth))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to get bonus: %w", err)
	}
	return b, nil
}

func (r *payrollRepository) ListBonusesByUser(ctx context.Context, userID string) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM payroll_bonuses
		WHERE user_id = $1
		ORDER BY source_month ASC, type ASC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	return collectBonuses(rows)
}

func (r *payrollRepository) ListApprovedBonusesPayableOn(ctx context.Context, payDate time.Time) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM payroll_bonuses
		WHERE status = $1 AND payable_date = $2
		ORDER BY user_id ASC, source_month ASC, type ASC
	`

	rows, err := q.Query(ctx, query, payroll.BonusStatusApproved, payDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list payable bonuses: %w", err)
	}
	return collectBonuses(rows)
}

func (r *payrollRepository) DetachBonusesFromCheck(ctx context.Context, checkID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_bonuses
		SET payroll_check_id = NULL, updated_at = NOW()
		WHERE payroll_check_id = $1
	`

	if _, err := q.Exec(ctx, query, checkID); err != nil {
		return fmt.Errorf("failed to detach bonuses: %w", err)
	}
	return nil
}

func (r *payrollRepository) AttachBonusesToCheck(ctx context.Context, checkID string, bonusIDs []string) error {
	if len(bonusIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_bonuses
		SET payroll_check_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[])
	`

	if _, err := q.Exec(ctx, query, checkID, bonusIDs); err != nil {
		return fmt.Errorf("failed to attach bonuses: %w", err)
	}
	return nil
}

func (r *payrollRepository) MarkBonusesPaidForPeriod(ctx context.Context, periodID string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_bonuses b
		SET status = $2, paid_at = $3, updated_at = NOW()
		FROM payroll_checks c
		WHERE b.payroll_check_id = c.id AND c.period_id = $1
	`

	if _, err := q.Exec(ctx, query, periodID, payroll.BonusStatusPaid, paidAt); err != nil {
		return fmt.Errorf("failed to mark bonuses paid: %w", err)
	}
	return nil
}

// ========== PERIODS ==========

const periodColumns = `
	id, period_start, period_end, start_date::text, end_date::text, pay_date,
	status, paid_at, created_at, updated_at`

func scanPeriod(row pgx.Row, extra ...any) (payroll.Period, error) {
	var p payroll.Period
	dest := []any{
		&p.ID, &p.PeriodStart, &p.PeriodEnd, &p.StartDate, &p.EndDate, &p.PayDate,
		&p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

// EnsurePeriod inserts p unless a period with the same bounds exists. The
// no-op update lets RETURNING yield the existing row; xmax = 0 only for a
// fresh insert.
func (r *payrollRepository) EnsurePeriod(ctx context.Context, p payroll.Period) (payroll.Period, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (period_start, period_end, start_date, end_date, pay_date, status)
		VALUES ($1, $2, $3::date, $4::date, $5, $6)
		ON CONFLICT (period_start, period_end) DO UPDATE SET
			period_start = EXCLUDED.period_start
		RETURNING ` + periodColumns + `, (xmax = 0) AS created`

	var created bool
	saved, err := scanPeriod(q.QueryRow(ctx, query,
		p.PeriodStart, p.PeriodEnd, p.StartDate, p.EndDate, p.PayDate, payroll.PeriodStatusDraft,
	), &created)
	if err != nil {
		return payroll.Period{}, false, fmt.Errorf("failed to ensure payroll period: %w", err)
	}
	return saved, created, nil
}

func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.Period, error) {
	if !isUUID(id) {
		return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1 FOR UPDATE`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) UpdatePeriodStatus(ctx context.Context, id string, status payroll.PeriodStatus, paidAt *time.Time) (payroll.Period, error) {
	if !isUUID(id) {
		return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, id, status, paidAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to update payroll period: %w", err)
	}
	return p, nil
}

// ========== CHECKS ==========

const checkColumns = `
	id, period_id, user_id, base_amount, monthly_attendance_bonus, deferred_monthly_bonus,
	quarterly_attendance_bonus, kpi_bonus, total_amount, status, paid_at, snapshot,
	created_at, updated_at`

func scanCheck(row pgx.Row) (payroll.Check, error) {
	var c payroll.Check
	var snapshot []byte
	err := row.Scan(
		&c.ID, &c.PeriodID, &c.UserID, &c.BaseAmount, &c.MonthlyAttendanceBonus, &c.DeferredMonthlyBonus,
		&c.QuarterlyAttendanceBonus, &c.KPIBonus, &c.TotalAmount, &c.Status, &c.PaidAt, &snapshot,
		&c.CreatedAt, &c.UpdatedAt,
	)
	c.Snapshot = snapshot
	return c, err
}

func (r *payrollRepository) UpsertCheck(ctx context.Context, c payroll.Check) (payroll.Check, error) {
	if !isUUID(c.PeriodID) {
		return payroll.Check{}, payroll.ErrPayrollPeriodNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_checks (
			period_id, user_id, base_amount, monthly_attendance_bonus, deferred_monthly_bonus,
			quarterly_attendance_bonus, kpi_bonus, total_amount, status, paid_at, snapshot
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (period_id, user_id) DO UPDATE SET
			base_amount = EXCLUDED.base_amount,
			monthly_attendance_bonus = EXCLUDED.monthly_attendance_bonus,
			deferred_monthly_bonus = EXCLUDED.deferred_monthly_bonus,
			quarterly_attendance_bonus = EXCLUDED.quarterly_attendance_bonus,
			kpi_bonus = EXCLUDED.kpi_bonus,
			total_amount = EXCLUDED.total_amount,
			status = EXCLUDED.status,
			paid_at = EXCLUDED.paid_at,
			snapshot = EXCLUDED.snapshot,
			updated_at = NOW()
		RETURNING ` + checkColumns

	saved, err := scanCheck(q.QueryRow(ctx, query,
		c.PeriodID, c.UserID, c.BaseAmount, c.MonthlyAttendanceBonus, c.DeferredMonthlyBonus,
		c.QuarterlyAttendanceBonus, c.KPIBonus, c.TotalAmount, c.Status, c.PaidAt, []byte(c.Snapshot),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return payroll.Check{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.Check{}, fmt.Errorf("failed to upsert payroll check: %w", err)
	}
	return saved, nil
}

func (r *payrollRepository) GetCheck(ctx context.Context, periodID, userID string) (payroll.Check, error) {
	if !isUUID(periodID) {
		return payroll.Check{}, payroll.ErrPayrollCheckNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + checkColumns + ` FROM payroll_checks WHERE period_id = $1 AND user_id = $2`

	c, err := scanCheck(q.QueryRow(ctx, query, periodID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Check{}, payroll.ErrPayrollCheckNotFound
		}
		return payroll.Check{}, fmt.Errorf("failed to get payroll check: %w", err)
	}
	return c, nil
}

func (r *payrollRepository) ListChecksByPeriod(ctx context.Context, periodID string) ([]payroll.Check, error) {
	if !isUUID(periodID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + checkColumns + `
		FROM payroll_checks
		WHERE period_id = $1
		ORDER BY user_id ASC
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll checks: %w", err)
	}
	defer rows.Close()

	var checks []payroll.Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll check: %w", err)
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func (r *payrollRepository) DeleteCheck(ctx context.Context, periodID, userID string) error {
	if !isUUID(periodID) {
		return payroll.ErrPayrollCheckNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_checks WHERE period_id = $1 AND user_id = $2`

	tag, err := q.Exec(ctx, query, periodID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollCheckNotFound
	}
	return nil
}

func (r *payrollRepository) MarkChecksPaid(ctx context.Context, periodID string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_checks
		SET status = $2, paid_at = $3, updated_at = NOW()
		WHERE period_id = $1
	`

	if _, err := q.Exec(ctx, query, periodID, payroll.PeriodStatusPaid, paidAt); err != nil {
		return fmt.Errorf("failed to mark checks paid: %w", err)
	}
	return nil
}
