package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
)

type PayrollJobs struct {
	settlementSvc payroll.SettlementService
	logger        *slog.Logger
	now           func() time.Time
}

func NewPayrollJobs(settlementSvc payroll.SettlementService, logger *slog.Logger, now func() time.Time) *PayrollJobs {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollJobs{
		settlementSvc: settlementSvc,
		logger:        logger.With("job", "ensure_payroll_period"),
		now:           now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("ensure_payroll_period", 1*time.Hour, j.EnsurePayrollPeriod)
}

// EnsurePayrollPeriod ensures the period containing now and recalculates it
// unless it is already paid.
func (j *PayrollJobs) EnsurePayrollPeriod(ctx context.Context) error {
	period, err := j.settlementSvc.EnsureAndRecalcPeriod(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to ensure payroll period: %w", err)
	}
	j.logger.Debug("payroll period ensured",
		"period_id", period.ID, "start_date", period.StartDate, "end_date", period.EndDate, "status", period.Status)
	return nil
}
