package memory

import (
	"context"
	"sort"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
)

// AddEmployee inserts or replaces an employee.
func (s *Store) AddEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.UpdatedAt = s.now()
	s.employees[e.ID] = e
}

// AddConfig inserts a config keeping the user's history ordered by EffectiveOn.
func (s *Store) AddConfig(c employee.Config) employee.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	list := s.configs[c.UserID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].EffectiveOn.After(c.EffectiveOn)
	})
	list = append(list, employee.Config{})
	copy(list[i+1:], list[i:])
	list[i] = c
	s.configs[c.UserID] = list
	return c
}

type employeeRepository struct {
	s *Store
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type configRepository struct {
	s *Store
}

func (s *Store) Configs() employee.ConfigRepository {
	return &configRepository{s: s}
}

func (r *configRepository) ListByUser(_ context.Context, userID string) ([]employee.Config, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]employee.Config(nil), r.s.configs[userID]...), nil
}
