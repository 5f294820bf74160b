package database

import "context"

// Transactor runs fn inside one transaction. The transaction travels in the
// context handed to fn; repositories pick it up from there. A call made with
// a context that already carries a transaction joins it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
