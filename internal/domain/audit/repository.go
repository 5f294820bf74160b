package audit

import "context"

// Sink appends audit rows. There is no update or delete.
type Sink interface {
	Append(ctx context.Context, entry Entry) error
}

type AuditRepository interface {
	Sink
	ListByEntity(ctx context.Context, entityType EntityType, entityID string) ([]Entry, error)
}
