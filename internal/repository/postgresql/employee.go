package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&e.ID, &e.FullName, &e.Email, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, is_active, created_at, updated_at
		FROM employees
		WHERE is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Email, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

type configRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) employee.ConfigRepository {
	return &configRepository{db: db}
}

// ListByUser implements employee.ConfigRepository.
func (r *configRepository) ListByUser(ctx context.Context, userID string) ([]employee.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, effective_on, schedule,
			   base_semi_monthly_salary, monthly_attendance_bonus, quarterly_attendance_bonus,
			   kpi_bonus_enabled, kpi_bonus_default_amount, created_at, updated_at
		FROM employee_configs
		WHERE user_id = $1
		ORDER BY effective_on ASC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee configs: %w", err)
	}
	defer rows.Close()

	var configs []employee.Config
	for rows.Next() {
		var c employee.Config
		var schedule []byte
		err := rows.Scan(
			&c.ID, &c.UserID, &c.EffectiveOn, &schedule,
			&c.BaseSemiMonthlySalary, &c.MonthlyAttendanceBonus, &c.QuarterlyAttendanceBonus,
			&c.KPIBonusEnabled, &c.KPIBonusDefaultAmount, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee config: %w", err)
		}
		if c.Schedule, err = decodeSchedule(schedule); err != nil {
			return nil, fmt.Errorf("config %s: %w", c.ID, err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// decodeSchedule reads a JSON list of weekday entries into a WeeklySchedule.
// Entries may appear in any order; missing weekdays stay disabled.
func decodeSchedule(raw []byte) (employee.WeeklySchedule, error) {
	var schedule employee.WeeklySchedule
	for i := range schedule {
		schedule[i].Weekday = i
	}
	if len(raw) == 0 {
		return schedule, nil
	}

	var entries []employee.ScheduleEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return schedule, fmt.Errorf("failed to decode schedule: %w", err)
	}
	for _, e := range entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			return schedule, fmt.Errorf("invalid schedule weekday %d", e.Weekday)
		}
		schedule[e.Weekday] = e
	}
	return schedule, nil
}
