package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

// FinalizeSchedule gates the monthly finalization run to one local hour.
type FinalizeSchedule struct {
	Day         int
	Hour        int
	MaxParallel int
}

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	bonusSvc      payroll.BonusService
	employeeRepo  employee.EmployeeRepository
	cal           *calendar.Calendar
	schedule      FinalizeSchedule
	logger        *slog.Logger
	now           func() time.Time
}

// NewAttendanceJobs returns the month-end jobs. A nil now uses time.Now and
// a nil logger uses slog.Default.
func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	bonusSvc payroll.BonusService,
	employeeRepo employee.EmployeeRepository,
	cal *calendar.Calendar,
	schedule FinalizeSchedule,
	logger *slog.Logger,
	now func() time.Time,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	if schedule.MaxParallel < 1 {
		schedule.MaxParallel = 1
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		bonusSvc:      bonusSvc,
		employeeRepo:  employeeRepo,
		cal:           cal,
		schedule:      schedule,
		logger:        logger.With("job", "finalize_attendance_month"),
		now:           now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("finalize_attendance_month", 1*time.Hour, j.FinalizeAttendanceMonth)
}

// FinalizeAttendanceMonth finalizes the previous month when the local clock
// is inside the configured day and hour. Other ticks return immediately.
func (j *AttendanceJobs) FinalizeAttendanceMonth(ctx context.Context) error {
	local := j.cal.In(j.now())
	if local.Day() != j.schedule.Day || local.Hour() != j.schedule.Hour {
		return nil
	}
	previous := j.cal.AddMonths(j.cal.MonthOf(local), -1)
	_, err := j.FinalizeMonthForAll(ctx, previous.Key)
	return err
}

// FinalizeResult counts the outcome of one batch run.
type FinalizeResult struct {
	Month     string
	Employees int
	Finalized int
	Failed    int
}

// FinalizeMonthForAll finalizes month for every active employee and then
// ensures their KPI candidates. A failing employee is logged and skipped.
func (j *AttendanceJobs) FinalizeMonthForAll(ctx context.Context, month string) (FinalizeResult, error) {
	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	j.logger.Info("finalizing attendance month", "month", month, "employees", len(employees))

	var finalized, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.schedule.MaxParallel)
	for _, emp := range employees {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if j.finalizeOne(gctx, emp.ID, month) {
				finalized.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FinalizeResult{}, err
	}

	result := FinalizeResult{
		Month:     month,
		Employees: len(employees),
		Finalized: int(finalized.Load()),
		Failed:    int(failed.Load()),
	}
	j.logger.Info("attendance month finalized",
		"month", month, "finalized", result.Finalized, "failed", result.Failed)
	return result, nil
}

func (j *AttendanceJobs) finalizeOne(ctx context.Context, userID, month string) bool {
	_, err := j.attendanceSvc.FinalizeMonth(ctx, attendance.FinalizeMonthRequest{UserID: userID, Month: month})
	if err != nil {
		j.logger.Error("failed to finalize month", "user_id", userID, "month", month, "error", err)
		return false
	}

	_, err = j.bonusSvc.EnsureKPICandidate(ctx, payroll.EnsureKPICandidateRequest{UserID: userID, Month: month})
	if err != nil && !errors.Is(err, payroll.ErrKPIBonusNotEnabled) {
		j.logger.Warn("failed to ensure KPI candidate", "user_id", userID, "month", month, "error", err)
	}
	return true
}
