package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/memory"
	attendanceservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/attendance"
	payrollservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/payroll"
)

var la = calendar.MustNew("America/Los_Angeles")

type services struct {
	store      *memory.Store
	attendance attendance.AttendanceService
	bonuses    payroll.BonusService
	settlement payroll.SettlementService
}

func newServices(now func() time.Time) services {
	store := memory.NewStore(now)
	store.AddEmployee(employee.Employee{ID: "u1", FullName: "Ana Lee", IsActive: true})
	store.AddEmployee(employee.Employee{ID: "u2", FullName: "Ben Ortiz", IsActive: true})
	store.AddEmployee(employee.Employee{ID: "u3", FullName: "Former", IsActive: false})
	store.AddConfig(employee.Config{
		UserID:                "u1",
		EffectiveOn:           time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		BaseSemiMonthlySalary: decimal.NewFromInt(2000),
		KPIBonusEnabled:       true,
		KPIBonusDefaultAmount: decimal.NewFromInt(50),
	})

	tx := store.Transactor()
	bonuses := payrollservice.NewBonusService(tx, la, store.Payroll(), store.MonthFacts(), store.Configs(), store.Audit(), now)
	return services{
		store:   store,
		bonuses: bonuses,
		attendance: attendanceservice.NewAttendanceService(tx, la, store.MonthFacts(), store.Activity(),
			store.Requests(), store.Holidays(), store.Configs(), store.Audit(), bonuses, now),
		settlement: payrollservice.NewSettlementService(tx, la, store.Payroll(), store.Employees(), store.Configs(), store.Audit(), now),
	}
}

func TestFinalizeAttendanceMonth_GatedByLocalDayAndHour(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 1, 30, 0, 0, la.Location())
	svc := newServices(func() time.Time { return now })
	jobs := NewAttendanceJobs(svc.attendance, svc.bonuses, svc.store.Employees(), la,
		FinalizeSchedule{Day: 1, Hour: 2, MaxParallel: 2}, nil, func() time.Time { return now })

	require.NoError(t, jobs.FinalizeAttendanceMonth(ctx))
	_, err := svc.attendance.GetMonthFact(ctx, "u1", "2025-01")
	assert.ErrorIs(t, err, attendance.ErrMonthFactNotFound, "01:30 is outside the finalize hour")

	now = time.Date(2025, 2, 1, 2, 15, 0, 0, la.Location())
	require.NoError(t, jobs.FinalizeAttendanceMonth(ctx))

	for _, id := range []string{"u1", "u2"} {
		fact, err := svc.attendance.GetMonthFact(ctx, id, "2025-01")
		require.NoError(t, err, id)
		assert.Equal(t, attendance.FactStatusFinalized, fact.Status, id)
	}
	_, err = svc.attendance.GetMonthFact(ctx, "u3", "2025-01")
	assert.ErrorIs(t, err, attendance.ErrMonthFactNotFound, "inactive employees are skipped")

	kpi, err := svc.bonuses.ListBonuses(ctx, "u1")
	require.NoError(t, err)
	var pending int
	for _, b := range kpi {
		if b.Type == payroll.BonusTypeKPI {
			assert.Equal(t, payroll.BonusStatusPending, b.Status)
			pending++
		}
	}
	assert.Equal(t, 1, pending)

	other, err := svc.bonuses.ListBonuses(ctx, "u2")
	require.NoError(t, err)
	for _, b := range other {
		assert.NotEqual(t, payroll.BonusTypeKPI, b.Type)
	}
}

type flakyAttendance struct {
	attendance.AttendanceService
	mu    sync.Mutex
	calls []string
}

func (f *flakyAttendance) FinalizeMonth(ctx context.Context, req attendance.FinalizeMonthRequest) (attendance.MonthFactResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.UserID)
	f.mu.Unlock()
	if req.UserID == "u1" {
		return attendance.MonthFactResponse{}, errors.New("source unavailable")
	}
	return f.AttendanceService.FinalizeMonth(ctx, req)
}

func TestFinalizeMonthForAll_ContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, 2, 1, 2, 0, 0, 0, la.Location()) }
	svc := newServices(now)
	flaky := &flakyAttendance{AttendanceService: svc.attendance}
	jobs := NewAttendanceJobs(flaky, svc.bonuses, svc.store.Employees(), la, FinalizeSchedule{Day: 1, Hour: 2}, nil, now)

	result, err := jobs.FinalizeMonthForAll(ctx, "2025-01")
	require.NoError(t, err)
	assert.Equal(t, FinalizeResult{Month: "2025-01", Employees: 2, Finalized: 1, Failed: 1}, result)
	assert.ElementsMatch(t, []string{"u1", "u2"}, flaky.calls)

	_, err = svc.attendance.GetMonthFact(ctx, "u2", "2025-01")
	assert.NoError(t, err)
}

func TestEnsurePayrollPeriod(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, 1, 20, 9, 0, 0, 0, la.Location()) }
	svc := newServices(now)
	jobs := NewPayrollJobs(svc.settlement, nil, now)

	require.NoError(t, jobs.EnsurePayrollPeriod(ctx))
	require.NoError(t, jobs.EnsurePayrollPeriod(ctx))

	period := svc.settlement.ResolvePeriod(now())
	assert.Equal(t, "2025-01-16", period.StartDate)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(context.Background(), nil)
	var ran []string
	s.AddJob("first", time.Hour, func(context.Context) error {
		ran = append(ran, "first")
		return errors.New("broken")
	})
	s.AddJob("second", time.Hour, func(context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first: broken")
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Equal(t, []string{"first", "second"}, s.Jobs())
}

func TestScheduler_StopWaitsForJobs(t *testing.T) {
	s := NewScheduler(context.Background(), nil)
	started := make(chan struct{})
	var once sync.Once
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		return nil
	})

	s.Start()
	<-started
	s.Stop()
}
