package postgresql

import (
	"context"
	"fmt"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

// Append implements audit.Sink. It joins the caller's transaction so the
// audit row commits or rolls back with the change it describes.
func (r *auditRepository) Append(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (actor_id, entity_type, entity_id, event, payload)
		VALUES ($1, $2, $3, $4, $5)
	`

	payload := entry.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if _, err := q.Exec(ctx, query, entry.ActorID, entry.EntityType, entry.EntityID, entry.Event, []byte(payload)); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListByEntity implements audit.AuditRepository.
func (r *auditRepository) ListByEntity(ctx context.Context, entityType audit.EntityType, entityID string) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, actor_id, entity_type, entity_id, event, payload, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.EntityType, &e.EntityID, &e.Event, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		e.Payload = payload
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
