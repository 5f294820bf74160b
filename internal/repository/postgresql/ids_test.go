package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
)

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("0b6f8c1e-3f43-4d1a-9a57-2f0f5c4d9e10"))
	assert.True(t, isUUID("01928f3a-7c1e-7a2b-8c3d-4e5f60718293"))
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID(""))
	assert.False(t, isUUID("0b6f8c1e-3f43-4d1a-9a57"))
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	// A nil pool is never reached because malformed ids return before any query.
	ctx := context.Background()
	payrollRepo := NewPayrollRepository(nil)
	facts := NewMonthFactRepository(nil)

	_, err := payrollRepo.GetPeriodByID(ctx, "abc")
	assert.ErrorIs(t, err, payroll.ErrPayrollPeriodNotFound)

	_, err = payrollRepo.UpdatePeriodStatus(ctx, "abc", payroll.PeriodStatusApproved, nil)
	assert.ErrorIs(t, err, payroll.ErrPayrollPeriodNotFound)

	_, err = payrollRepo.GetBonusByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrBonusNotFound)

	_, err = payrollRepo.GetCheck(ctx, "abc", "u1")
	assert.ErrorIs(t, err, payroll.ErrPayrollCheckNotFound)

	err = payrollRepo.DeleteCheck(ctx, "abc", "u1")
	assert.ErrorIs(t, err, payroll.ErrPayrollCheckNotFound)

	checks, err := payrollRepo.ListChecksByPeriod(ctx, "abc")
	assert.NoError(t, err)
	assert.Empty(t, checks)

	_, err = facts.GetByID(ctx, "42")
	assert.ErrorIs(t, err, attendance.ErrMonthFactNotFound)
}
