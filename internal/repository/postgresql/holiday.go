package postgresql

import (
	"context"
	"fmt"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/holiday"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepository) ListBetween(ctx context.Context, fromDay, toDay string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date::text, name, is_paid, created_at
		FROM holidays
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.IsPaid, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
