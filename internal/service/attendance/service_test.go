package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/validator"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/memory"
)

type recordingSynchronizer struct {
	calls []string
	err   error
}

func (r *recordingSynchronizer) SyncAttendanceBonuses(_ context.Context, userID, month string, _ *string) error {
	r.calls = append(r.calls, userID+"/"+month)
	return r.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, sync attendance.BonusSynchronizer) (attendance.AttendanceService, *memory.Store, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2025, 2, 1, 18, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clk.now)
	store.AddEmployee(employee.Employee{ID: "u1", FullName: "Ana Lee", IsActive: true})
	store.AddConfig(employee.Config{
		UserID:      "u1",
		EffectiveOn: localTime(2024, 1, 1, 0, 0),
		Schedule:    weekdaySchedule(ptr(8.0), ptr(9*60), workWeek...),
	})

	svc := NewAttendanceService(
		store.Transactor(),
		la,
		store.MonthFacts(),
		store.Activity(),
		store.Requests(),
		store.Holidays(),
		store.Configs(),
		store.Audit(),
		sync,
		clk.now,
	)
	return svc, store, clk
}

func TestRecalculateMonth_FinalizeThenSoftUnlock(t *testing.T) {
	ctx := context.Background()
	svc, store, clk := newTestService(t, nil)

	finalized, err := svc.RecalculateMonth(ctx, attendance.RecalculateMonthRequest{UserID: "u1", Month: "2025-01", Finalize: true})
	require.NoError(t, err)
	assert.Equal(t, attendance.FactStatusFinalized, finalized.Status)
	require.NotNil(t, finalized.FinalizedAt)
	assert.True(t, finalized.FinalizedAt.Equal(clk.t))
	assert.Len(t, finalized.Days, 31)
	assert.False(t, finalized.IsPerfect)

	clk.t = clk.t.Add(time.Hour)
	reopened, err := svc.RecalculateMonth(ctx, attendance.RecalculateMonthRequest{UserID: "u1", Month: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, finalized.ID, reopened.ID)
	assert.Equal(t, attendance.FactStatusPending, reopened.Status)
	assert.Nil(t, reopened.FinalizedAt)

	entries, err := store.Audit().ListByEntity(ctx, audit.EntityAttendanceMonthFact, finalized.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.EventAttendanceRecalc, entries[0].Event)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Payload, &payload))
	assert.Equal(t, "FINALIZED", payload["status"])
	assert.Equal(t, false, payload["is_perfect"])
	assert.Contains(t, payload, "tardy_minutes")
	assert.Contains(t, payload, "matched_make_up_hours")
}

func TestRecalculateMonth_UsesActivityOfTheMonth(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, nil)
	store.AddSamples(activeRun("u1", localTime(2025, 1, 6, 9, 0), 90)...)
	store.AddSamples(activeRun("u1", localTime(2025, 2, 3, 9, 0), 60)...)
	store.AddSessionStart(attendance.SessionStart{UserID: "u1", StartedAt: localTime(2025, 1, 6, 9, 10)})

	got, err := svc.RecalculateMonth(ctx, attendance.RecalculateMonthRequest{UserID: "u1", Month: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.WorkedHours)
	assert.Equal(t, 10, got.TardyMinutes)
}

func TestRecalculateMonth_ValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.RecalculateMonth(context.Background(), attendance.RecalculateMonthRequest{UserID: "u1", Month: "January"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")
}

func TestFinalizeMonth_SyncsBonusesInSameTransaction(t *testing.T) {
	ctx := context.Background()
	sync := &recordingSynchronizer{}
	svc, _, _ := newTestService(t, sync)

	got, err := svc.FinalizeMonth(ctx, attendance.FinalizeMonthRequest{UserID: "u1", Month: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, attendance.FactStatusFinalized, got.Status)
	assert.Equal(t, []string{"u1/2025-01"}, sync.calls)
}

func TestFinalizeMonth_RollsBackWhenBonusSyncFails(t *testing.T) {
	ctx := context.Background()
	sync := &recordingSynchronizer{err: errors.New("bonus store down")}
	svc, _, _ := newTestService(t, sync)

	_, err := svc.FinalizeMonth(ctx, attendance.FinalizeMonthRequest{UserID: "u1", Month: "2025-01"})
	require.Error(t, err)

	_, err = svc.GetMonthFact(ctx, "u1", "2025-01")
	assert.ErrorIs(t, err, attendance.ErrMonthFactNotFound)
}

func TestListMonthFacts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)
	for _, m := range []string{"2025-01", "2025-02", "2025-03", "2025-04"} {
		_, err := svc.RecalculateMonth(ctx, attendance.RecalculateMonthRequest{UserID: "u1", Month: m})
		require.NoError(t, err)
	}

	facts, err := svc.ListMonthFacts(ctx, attendance.MonthFactFilter{UserID: "u1", FromMonth: "2025-02", ToMonth: "2025-03"})
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "2025-02", facts[0].Month)
	assert.Equal(t, "2025-03", facts[1].Month)

	_, err = svc.ListMonthFacts(ctx, attendance.MonthFactFilter{UserID: "u1", FromMonth: "2025-03", ToMonth: "2025-02"})
	assert.Error(t, err)
}
