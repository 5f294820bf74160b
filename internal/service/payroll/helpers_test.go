package payroll

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/memory"
)

var la = calendar.MustNew("America/Los_Angeles")

func ptr[T any](v T) *T { return &v }

func localTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, la.Location())
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	store      *memory.Store
	clock      *clock
	bonuses    payroll.BonusService
	settlement payroll.SettlementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := &clock{t: localTime(2025, 2, 1, 9, 0)}
	store := memory.NewStore(clk.now)

	store.AddEmployee(employee.Employee{ID: "u1", FullName: "Ana Lee", IsActive: true})
	store.AddConfig(employee.Config{
		UserID:                   "u1",
		EffectiveOn:              localTime(2024, 1, 1, 0, 0),
		BaseSemiMonthlySalary:    decimal.NewFromInt(2000),
		MonthlyAttendanceBonus:   decimal.NewFromInt(100),
		QuarterlyAttendanceBonus: decimal.NewFromInt(300),
		KPIBonusEnabled:          true,
		KPIBonusDefaultAmount:    decimal.NewFromInt(50),
	})

	return &fixture{
		store:      store,
		clock:      clk,
		bonuses:    NewBonusService(store.Transactor(), la, store.Payroll(), store.MonthFacts(), store.Configs(), store.Audit(), clk.now),
		settlement: NewSettlementService(store.Transactor(), la, store.Payroll(), store.Employees(), store.Configs(), store.Audit(), clk.now),
	}
}

// finalize stores a FINALIZED fact for month, finalized at the fixture clock.
func (f *fixture) finalize(t *testing.T, userID, month string, perfect bool) {
	t.Helper()
	m, err := la.ParseMonth(month)
	require.NoError(t, err)
	at := f.clock.now().UTC()
	_, err = f.store.MonthFacts().Upsert(context.Background(), attendance.MonthFact{
		UserID:             userID,
		MonthStart:         m.Start,
		MonthKey:           m.Key,
		Status:             attendance.FactStatusFinalized,
		MonthlyComputation: attendance.MonthlyComputation{IsPerfect: perfect},
		FinalizedAt:        &at,
	})
	require.NoError(t, err)
}

func (f *fixture) bonus(t *testing.T, userID string, bonusType payroll.BonusType, sourceMonth time.Time) (payroll.Bonus, bool) {
	t.Helper()
	b, err := f.store.Payroll().GetBonusByKey(context.Background(), userID, bonusType, sourceMonth)
	if err != nil {
		require.ErrorIs(t, err, payroll.ErrBonusNotFound)
		return payroll.Bonus{}, false
	}
	return b, true
}

func monthStart(key string) time.Time {
	m, err := la.ParseMonth(key)
	if err != nil {
		panic(err)
	}
	return m.Start
}

func pendingFact(userID string, start time.Time, key string) attendance.MonthFact {
	return attendance.MonthFact{
		UserID:     userID,
		MonthStart: start,
		MonthKey:   key,
		Status:     attendance.FactStatusPending,
	}
}

func extractTotals(t *testing.T, snapshot []byte) string {
	t.Helper()
	var body struct {
		Totals json.RawMessage `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(snapshot, &body))
	return string(body.Totals)
}
