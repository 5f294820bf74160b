package postgresql

import "github.com/google/uuid"

// isUUID reports whether id can be compared against a UUID column. Lookups
// short-circuit to their not-found error otherwise so Postgres never sees a
// malformed id.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
