package memory

import (
	"context"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
)

type operatorRepository struct {
	s *Store
}

// Operators is keyed by lower-cased email.
func (s *Store) Operators() auth.OperatorRepository {
	return &operatorRepository{s: s}
}

func (r *operatorRepository) GetByEmail(_ context.Context, email string) (auth.Operator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.operators[email]
	if !ok {
		return auth.Operator{}, auth.ErrOperatorNotFound
	}
	return o, nil
}

func (r *operatorRepository) Create(_ context.Context, o auth.Operator) (auth.Operator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.operators[o.Email]; exists {
		return auth.Operator{}, auth.ErrOperatorExists
	}
	o.ID = newID()
	o.CreatedAt = r.s.now().UTC()
	r.s.operators[o.Email] = o
	return o, nil
}
