package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func (s *Store) Payroll() payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

// =============================================================================
// BONUSES
// =============================================================================

func (r *payrollRepository) UpsertBonus(_ context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := bonusKey{userID: b.UserID, bonusType: b.Type, sourceMonth: b.SourceMonth.Unix()}
	now := r.s.now()
	if existing, ok := r.s.bonuses[k]; ok {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
	} else {
		b.ID = newID()
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.s.bonuses[k] = b
	return b, nil
}

func (r *payrollRepository) GetBonusByID(_ context.Context, id string) (payroll.Bonus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.bonuses {
		if b.ID == id {
			return b, nil
		}
	}
	return payroll.Bonus{}, payroll.ErrBonusNotFound
}

func (r *payrollRepository) GetBonusByKey(_ context.Context, userID string, bonusType payroll.BonusType, sourceMonth time.Time) (payroll.Bonus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bonuses[bonusKey{userID: userID, bonusType: bonusType, sourceMonth: sourceMonth.Unix()}]
	if !ok {
		return payroll.Bonus{}, payroll.ErrBonusNotFound
	}
	return b, nil
}

func (r *payrollRepository) ListBonusesByUser(_ context.Context, userID string) ([]payroll.Bonus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Bonus
	for _, b := range r.s.bonuses {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortBonuses(out)
	return out, nil
}

func (r *payrollRepository) ListApprovedBonusesPayableOn(_ context.Context, payDate time.Time) ([]payroll.Bonus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Bonus
	for _, b := range r.s.bonuses {
		if b.Status == payroll.BonusStatusApproved && b.PayableDate != nil && b.PayableDate.Equal(payDate) {
			out = append(out, b)
		}
	}
	sortBonuses(out)
	return out, nil
}

func sortBonuses(list []payroll.Bonus) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if !a.SourceMonth.Equal(b.SourceMonth) {
			return a.SourceMonth.Before(b.SourceMonth)
		}
		return a.Type < b.Type
	})
}

func (r *payrollRepository) DetachBonusesFromCheck(_ context.Context, checkID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, b := range r.s.bonuses {
		if b.PayrollCheckID != nil && *b.PayrollCheckID == checkID {
			b.PayrollCheckID = nil
			b.UpdatedAt = r.s.now()
			r.s.bonuses[k] = b
		}
	}
	return nil
}

func (r *payrollRepository) AttachBonusesToCheck(_ context.Context, checkID string, bonusIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(bonusIDs))
	for _, id := range bonusIDs {
		ids[id] = true
	}
	for k, b := range r.s.bonuses {
		if ids[b.ID] {
			id := checkID
			b.PayrollCheckID = &id
			b.UpdatedAt = r.s.now()
			r.s.bonuses[k] = b
		}
	}
	return nil
}

func (r *payrollRepository) MarkBonusesPaidForPeriod(_ context.Context, periodID string, paidAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	checkIDs := make(map[string]bool)
	for _, c := range r.s.checks {
		if c.PeriodID == periodID {
			checkIDs[c.ID] = true
		}
	}
	for k, b := range r.s.bonuses {
		if b.PayrollCheckID != nil && checkIDs[*b.PayrollCheckID] {
			at := paidAt
			b.Status = payroll.BonusStatusPaid
			b.PaidAt = &at
			b.UpdatedAt = r.s.now()
			r.s.bonuses[k] = b
		}
	}
	return nil
}

// =============================================================================
// PERIODS
// =============================================================================

func (r *payrollRepository) EnsurePeriod(_ context.Context, p payroll.Period) (payroll.Period, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := periodKey{start: p.PeriodStart.Unix(), end: p.PeriodEnd.Unix()}
	if existing, ok := r.s.periods[k]; ok {
		return existing, false, nil
	}
	p.ID = newID()
	p.Status = payroll.PeriodStatusDraft
	p.PaidAt = nil
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.periods[k] = p
	return p, true, nil
}

func (r *payrollRepository) GetPeriodByID(_ context.Context, id string) (payroll.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.periods {
		if p.ID == id {
			return p, nil
		}
	}
	return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
}

func (r *payrollRepository) UpdatePeriodStatus(_ context.Context, id string, status payroll.PeriodStatus, paidAt *time.Time) (payroll.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, p := range r.s.periods {
		if p.ID == id {
			p.Status = status
			p.PaidAt = paidAt
			p.UpdatedAt = r.s.now()
			r.s.periods[k] = p
			return p, nil
		}
	}
	return payroll.Period{}, payroll.ErrPayrollPeriodNotFound
}

// =============================================================================
// CHECKS
// =============================================================================

func (r *payrollRepository) UpsertCheck(_ context.Context, c payroll.Check) (payroll.Check, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := checkKey{periodID: c.PeriodID, userID: c.UserID}
	now := r.s.now()
	if existing, ok := r.s.checks[k]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = newID()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.s.checks[k] = c
	return c, nil
}

func (r *payrollRepository) GetCheck(_ context.Context, periodID, userID string) (payroll.Check, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.checks[checkKey{periodID: periodID, userID: userID}]
	if !ok {
		return payroll.Check{}, payroll.ErrPayrollCheckNotFound
	}
	return c, nil
}

func (r *payrollRepository) ListChecksByPeriod(_ context.Context, periodID string) ([]payroll.Check, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Check
	for _, c := range r.s.checks {
		if c.PeriodID == periodID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *payrollRepository) DeleteCheck(_ context.Context, periodID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := checkKey{periodID: periodID, userID: userID}
	if _, ok := r.s.checks[k]; !ok {
		return payroll.ErrPayrollCheckNotFound
	}
	delete(r.s.checks, k)
	return nil
}

func (r *payrollRepository) MarkChecksPaid(_ context.Context, periodID string, paidAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, c := range r.s.checks {
		if c.PeriodID == periodID {
			at := paidAt
			c.Status = payroll.PeriodStatusPaid
			c.PaidAt = &at
			c.UpdatedAt = r.s.now()
			r.s.checks[k] = c
		}
	}
	return nil
}
