package auth

import "context"

type OperatorRepository interface {
	// GetByEmail returns ErrOperatorNotFound when no operator has the email.
	GetByEmail(ctx context.Context, email string) (Operator, error)
	Create(ctx context.Context, operator Operator) (Operator, error)
}
