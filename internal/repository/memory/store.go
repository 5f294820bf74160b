// Package memory keeps every repository in process memory. It backs the
// service tests and local dry runs without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/holiday"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
)

type factKey struct {
	userID     string
	monthStart int64
}

type bonusKey struct {
	userID      string
	bonusType   payroll.BonusType
	sourceMonth int64
}

type periodKey struct {
	start int64
	end   int64
}

type checkKey struct {
	periodID string
	userID   string
}

// Store holds every table. Writes inside WithinTransaction are rolled back
// when the callback fails.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	employees map[string]employee.Employee
	configs   map[string][]employee.Config
	requests  []leave.TimeOffRequest
	holidays  map[string]holiday.Holiday
	samples   map[string][]attendance.ActivitySample
	sessions  map[string][]attendance.SessionStart
	facts     map[factKey]attendance.MonthFact
	bonuses   map[bonusKey]payroll.Bonus
	periods   map[periodKey]payroll.Period
	checks    map[checkKey]payroll.Check
	audits    []audit.Entry
	operators map[string]auth.Operator
}

// NewStore returns an empty store. A nil now uses time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:       now,
		employees: make(map[string]employee.Employee),
		configs:   make(map[string][]employee.Config),
		holidays:  make(map[string]holiday.Holiday),
		samples:   make(map[string][]attendance.ActivitySample),
		sessions:  make(map[string][]attendance.SessionStart),
		facts:     make(map[factKey]attendance.MonthFact),
		bonuses:   make(map[bonusKey]payroll.Bonus),
		periods:   make(map[periodKey]payroll.Period),
		checks:    make(map[checkKey]payroll.Check),
		operators: make(map[string]auth.Operator),
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type txKey struct{}

type transactor struct {
	s *Store
}

// Transactor serializes transactions and restores a snapshot on error.
func (s *Store) Transactor() database.Transactor {
	return &transactor{s: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.RLock()
	snap := t.s.snapshot()
	t.s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	facts   map[factKey]attendance.MonthFact
	bonuses map[bonusKey]payroll.Bonus
	periods map[periodKey]payroll.Period
	checks  map[checkKey]payroll.Check
	audits  []audit.Entry
}

// snapshot copies the tables the services write to.
func (s *Store) snapshot() snapshot {
	return snapshot{
		facts:   cloneMap(s.facts),
		bonuses: cloneMap(s.bonuses),
		periods: cloneMap(s.periods),
		checks:  cloneMap(s.checks),
		audits:  append([]audit.Entry(nil), s.audits...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.facts = snap.facts
	s.bonuses = snap.bonuses
	s.periods = snap.periods
	s.checks = snap.checks
	s.audits = snap.audits
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
