package memory

import (
	"context"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
)

type auditRepository struct {
	s *Store
}

func (s *Store) Audit() audit.AuditRepository {
	return &auditRepository{s: s}
}

func (r *auditRepository) Append(_ context.Context, entry audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = newID()
	}
	entry.CreatedAt = r.s.now()
	r.s.audits = append(r.s.audits, entry)
	return nil
}

// ListByEntity returns entries in append order.
func (r *auditRepository) ListByEntity(_ context.Context, entityType audit.EntityType, entityID string) ([]audit.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []audit.Entry
	for _, e := range r.s.audits {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
