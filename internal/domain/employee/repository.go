package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}

// ConfigRepository reads effective-dated configs.
type ConfigRepository interface {
	// ListByUser returns every config of the user ordered by effective_on ascending.
	ListByUser(ctx context.Context, userID string) ([]Config, error)
}
