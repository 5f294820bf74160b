package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables this package reads and writes. Every statement
// is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
