package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
)

type monthFactRepository struct {
	s *Store
}

func (s *Store) MonthFacts() attendance.MonthFactRepository {
	return &monthFactRepository{s: s}
}

func (r *monthFactRepository) Upsert(_ context.Context, fact attendance.MonthFact) (attendance.MonthFact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := factKey{userID: fact.UserID, monthStart: fact.MonthStart.Unix()}
	now := r.s.now()
	if existing, ok := r.s.facts[k]; ok {
		fact.ID = existing.ID
		fact.CreatedAt = existing.CreatedAt
	} else {
		fact.ID = newID()
		fact.CreatedAt = now
	}
	fact.UpdatedAt = now
	r.s.facts[k] = fact
	return fact, nil
}

func (r *monthFactRepository) GetByID(_ context.Context, id string) (attendance.MonthFact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.facts {
		if f.ID == id {
			return f, nil
		}
	}
	return attendance.MonthFact{}, attendance.ErrMonthFactNotFound
}

func (r *monthFactRepository) GetByUserMonth(_ context.Context, userID string, monthStart time.Time) (attendance.MonthFact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.facts[factKey{userID: userID, monthStart: monthStart.Unix()}]
	if !ok {
		return attendance.MonthFact{}, attendance.ErrMonthFactNotFound
	}
	return f, nil
}

func (r *monthFactRepository) ListByUserRange(_ context.Context, userID string, from, to time.Time) ([]attendance.MonthFact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []attendance.MonthFact
	for k, f := range r.s.facts {
		if k.userID == userID && !f.MonthStart.Before(from) && f.MonthStart.Before(to) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthStart.Before(out[j].MonthStart) })
	return out, nil
}
