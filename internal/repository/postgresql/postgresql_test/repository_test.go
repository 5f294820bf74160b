package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/postgresql"
)

var errBoom = errors.New("boom")

func TestMonthFactRepository_UpsertKeepsIdentity(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewMonthFactRepository(setup.DB)

	monthStart := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	fact := attendance.MonthFact{
		UserID:     "u1",
		MonthStart: monthStart,
		MonthKey:   "2025-01",
		Status:     attendance.FactStatusPending,
		MonthlyComputation: attendance.MonthlyComputation{
			AssignedHours: 184,
			WorkedHours:   180.5,
			TardyMinutes:  12,
			Reasons:       []string{"Uncovered absence 3.5h"},
			Days:          []attendance.DaySnapshot{{Date: "2025-01-02", AssignedHours: 8, WorkedHours: 8, Notes: []string{}}},
		},
	}

	first, err := repo.Upsert(ctx, fact)
	require.NoError(t, err)

	finalizedAt := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	fact.Status = attendance.FactStatusFinalized
	fact.FinalizedAt = &finalizedAt
	fact.IsPerfect = true
	fact.Reasons = nil
	second, err := repo.Upsert(ctx, fact)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsFinalized())
	assert.Empty(t, second.Reasons)
	require.Len(t, second.Days, 1)
	assert.Equal(t, "2025-01-02", second.Days[0].Date)

	got, err := repo.GetByUserMonth(ctx, "u1", monthStart)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.GetByUserMonth(ctx, "u1", monthStart.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, attendance.ErrMonthFactNotFound)
}

func TestPayrollRepository_PeriodsChecksAndBonuses(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)

	period := payroll.Period{
		PeriodStart: time.Date(2025, 1, 16, 8, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
		StartDate:   "2025-01-16",
		EndDate:     "2025-01-31",
		PayDate:     time.Date(2025, 2, 15, 20, 0, 0, 0, time.UTC),
	}
	created, isNew, err := repo.EnsurePeriod(ctx, period)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "2025-01-31", created.EndDate)

	again, isNew, err := repo.EnsurePeriod(ctx, period)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)

	payable := period.PayDate
	bonus, err := repo.UpsertBonus(ctx, payroll.Bonus{
		UserID:      "u1",
		Type:        payroll.BonusTypeMonthlyAttendance,
		SourceMonth: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		Status:      payroll.BonusStatusApproved,
		Amount:      decimal.NewFromInt(100),
		PayableDate: &payable,
	})
	require.NoError(t, err)

	listed, err := repo.ListApprovedBonusesPayableOn(ctx, period.PayDate)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, bonus.ID, listed[0].ID)

	check, err := repo.UpsertCheck(ctx, payroll.Check{
		PeriodID:    created.ID,
		UserID:      "u1",
		BaseAmount:  decimal.NewFromInt(2000),
		TotalAmount: decimal.NewFromInt(2100),
		Status:      payroll.PeriodStatusDraft,
		Snapshot:    []byte(`{"totals":{"total":"2100"}}`),
	})
	require.NoError(t, err)
	require.NoError(t, repo.AttachBonusesToCheck(ctx, check.ID, []string{bonus.ID}))

	paidAt := time.Date(2025, 2, 15, 21, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkChecksPaid(ctx, created.ID, paidAt))
	require.NoError(t, repo.MarkBonusesPaidForPeriod(ctx, created.ID, paidAt))

	paidBonus, err := repo.GetBonusByID(ctx, bonus.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.BonusStatusPaid, paidBonus.Status)
	require.NotNil(t, paidBonus.PayrollCheckID)
	assert.Equal(t, check.ID, *paidBonus.PayrollCheckID)

	paidCheck, err := repo.GetCheck(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, payroll.PeriodStatusPaid, paidCheck.Status)
	assert.True(t, paidCheck.TotalAmount.Equal(decimal.NewFromInt(2100)))

	_, err = repo.UpsertCheck(ctx, payroll.Check{
		PeriodID: "00000000-0000-0000-0000-000000000000",
		UserID:   "u1",
		Status:   payroll.PeriodStatusDraft,
		Snapshot: []byte(`{}`),
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollPeriodNotFound)

	_, err = repo.GetPeriodByID(ctx, "abc")
	assert.ErrorIs(t, err, payroll.ErrPayrollPeriodNotFound)
	_, err = repo.GetBonusByID(ctx, "abc")
	assert.ErrorIs(t, err, payroll.ErrBonusNotFound)
}

func TestPayrollRepository_DeleteCheck(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)

	period, _, err := repo.EnsurePeriod(ctx, payroll.Period{
		PeriodStart: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 2, 16, 8, 0, 0, 0, time.UTC),
		StartDate:   "2025-02-01",
		EndDate:     "2025-02-15",
		PayDate:     time.Date(2025, 2, 28, 20, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = repo.UpsertCheck(ctx, payroll.Check{
		PeriodID: period.ID,
		UserID:   "u1",
		Status:   payroll.PeriodStatusDraft,
		Snapshot: []byte(`{}`),
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCheck(ctx, period.ID, "u1"))
	_, err = repo.GetCheck(ctx, period.ID, "u1")
	assert.ErrorIs(t, err, payroll.ErrPayrollCheckNotFound)
	assert.ErrorIs(t, repo.DeleteCheck(ctx, period.ID, "u1"), payroll.ErrPayrollCheckNotFound)
}

func TestTransactor_RollsBackAuditRows(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(setup.DB)
	auditRepo := postgresql.NewAuditRepository(setup.DB)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := audit.NewEntry(nil, audit.EntityPayrollPeriod, "p1", audit.EventPayrollStatusChanged, map[string]string{"action": "created"})
		require.NoError(t, err)
		require.NoError(t, auditRepo.Append(ctx, entry))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	entries, err := auditRepo.ListByEntity(ctx, audit.EntityPayrollPeriod, "p1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOperatorRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOperatorRepository(setup.DB)

	created, err := repo.Create(ctx, auth.Operator{
		Email:        "ops@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         auth.RoleManager,
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, auth.RoleManager, got.Role)

	_, err = repo.Create(ctx, auth.Operator{Email: "ops@example.com", PasswordHash: "x", Role: auth.RoleViewer})
	assert.ErrorIs(t, err, auth.ErrOperatorExists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrOperatorNotFound)
}
