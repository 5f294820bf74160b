package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type operatorRepository struct {
	db *database.DB
}

func NewOperatorRepository(db *database.DB) auth.OperatorRepository {
	return &operatorRepository{db: db}
}

// GetByEmail implements auth.OperatorRepository.
func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (auth.Operator, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, password_hash, role, is_active, created_at
		FROM operators
		WHERE email = $1
	`

	var o auth.Operator
	err := q.QueryRow(ctx, query, email).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Operator{}, auth.ErrOperatorNotFound
		}
		return auth.Operator{}, fmt.Errorf("failed to get operator: %w", err)
	}
	return o, nil
}

// Create implements auth.OperatorRepository.
func (r *operatorRepository) Create(ctx context.Context, o auth.Operator) (auth.Operator, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO operators (email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, o.Email, o.PasswordHash, o.Role, o.IsActive).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return auth.Operator{}, auth.ErrOperatorExists
		}
		return auth.Operator{}, fmt.Errorf("failed to create operator: %w", err)
	}
	return o, nil
}
