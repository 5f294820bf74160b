package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/holiday"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/leave"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
	employeeservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/employee"
)

type AttendanceServiceImpl struct {
	tx        database.Transactor
	cal       *calendar.Calendar
	factRepo  attendance.MonthFactRepository
	activity  attendance.ActivitySource
	requests  leave.RequestSource
	holidays  holiday.HolidayRepository
	configs   *employeeservice.ConfigResolverImpl
	auditSink audit.Sink
	bonuses   attendance.BonusSynchronizer
	now       func() time.Time
}

// NewAttendanceService wires the reconciliation engine. bonuses may be nil,
// in which case FinalizeMonth only finalizes the fact. A nil now uses time.Now.
func NewAttendanceService(
	tx database.Transactor,
	cal *calendar.Calendar,
	factRepo attendance.MonthFactRepository,
	activity attendance.ActivitySource,
	requests leave.RequestSource,
	holidays holiday.HolidayRepository,
	configRepo employee.ConfigRepository,
	auditSink audit.Sink,
	bonuses attendance.BonusSynchronizer,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		tx:        tx,
		cal:       cal,
		factRepo:  factRepo,
		activity:  activity,
		requests:  requests,
		holidays:  holidays,
		configs:   employeeservice.NewConfigResolver(configRepo),
		auditSink: auditSink,
		bonuses:   bonuses,
		now:       now,
	}
}

type recalcAuditPayload struct {
	Month              string                `json:"month"`
	Status             attendance.FactStatus `json:"status"`
	IsPerfect          bool                  `json:"is_perfect"`
	TardyMinutes       int                   `json:"tardy_minutes"`
	MatchedMakeUpHours float64               `json:"matched_make_up_hours"`
	Reasons            []string              `json:"reasons"`
}

func (s *AttendanceServiceImpl) RecalculateMonth(ctx context.Context, req attendance.RecalculateMonthRequest) (attendance.MonthFactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthFactResponse{}, err
	}
	month, err := s.cal.ParseMonth(req.Month)
	if err != nil {
		return attendance.MonthFactResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}

	var fact attendance.MonthFact
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		fact, err = s.recalculate(ctx, req.UserID, month, req.Finalize, req.ActorID)
		return err
	})
	if err != nil {
		return attendance.MonthFactResponse{}, err
	}
	return attendance.NewMonthFactResponse(fact), nil
}

func (s *AttendanceServiceImpl) FinalizeMonth(ctx context.Context, req attendance.FinalizeMonthRequest) (attendance.MonthFactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthFactResponse{}, err
	}
	month, err := s.cal.ParseMonth(req.Month)
	if err != nil {
		return attendance.MonthFactResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}

	var fact attendance.MonthFact
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		fact, err = s.recalculate(ctx, req.UserID, month, true, req.ActorID)
		if err != nil {
			return err
		}
		if s.bonuses == nil {
			return nil
		}
		if err := s.bonuses.SyncAttendanceBonuses(ctx, req.UserID, month.Key, req.ActorID); err != nil {
			return fmt.Errorf("failed to sync attendance bonuses: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.MonthFactResponse{}, err
	}
	return attendance.NewMonthFactResponse(fact), nil
}

// recalculate must run inside a transaction.
func (s *AttendanceServiceImpl) recalculate(ctx context.Context, userID string, month calendar.Month, finalize bool, actorID *string) (attendance.MonthFact, error) {
	input, err := s.loadInput(ctx, userID, month)
	if err != nil {
		return attendance.MonthFact{}, err
	}
	computation := Reconcile(input)

	fact := attendance.MonthFact{
		UserID:             userID,
		MonthStart:         month.Start,
		MonthKey:           month.Key,
		Status:             attendance.FactStatusPending,
		MonthlyComputation: computation,
	}
	if finalize {
		finalizedAt := s.now().UTC()
		fact.Status = attendance.FactStatusFinalized
		fact.FinalizedAt = &finalizedAt
	}

	saved, err := s.factRepo.Upsert(ctx, fact)
	if err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to upsert month fact: %w", err)
	}

	entry, err := audit.NewEntry(actorID, audit.EntityAttendanceMonthFact, saved.ID, audit.EventAttendanceRecalc, recalcAuditPayload{
		Month:              saved.MonthKey,
		Status:             saved.Status,
		IsPerfect:          saved.IsPerfect,
		TardyMinutes:       saved.TardyMinutes,
		MatchedMakeUpHours: saved.MatchedMakeUpHours,
		Reasons:            saved.Reasons,
	})
	if err != nil {
		return attendance.MonthFact{}, err
	}
	if err := s.auditSink.Append(ctx, entry); err != nil {
		return attendance.MonthFact{}, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return saved, nil
}

// loadInput reads every source once for the whole month.
func (s *AttendanceServiceImpl) loadInput(ctx context.Context, userID string, month calendar.Month) (ReconcileInput, error) {
	firstDay := s.cal.DayOf(month.Start).Key
	lastDay := s.cal.LastDay(month).Key

	configs, err := s.configs.Index(ctx, userID)
	if err != nil {
		return ReconcileInput{}, err
	}
	holidays, err := s.holidays.ListBetween(ctx, firstDay, lastDay)
	if err != nil {
		return ReconcileInput{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	requests, err := s.requests.ApprovedRequests(ctx, userID, firstDay, lastDay)
	if err != nil {
		return ReconcileInput{}, fmt.Errorf("failed to list approved requests: %w", err)
	}
	samples, err := s.activity.MinuteSamples(ctx, userID, month.Start, month.End)
	if err != nil {
		return ReconcileInput{}, fmt.Errorf("failed to list activity samples: %w", err)
	}
	sessions, err := s.activity.SessionStarts(ctx, userID, month.Start, month.End)
	if err != nil {
		return ReconcileInput{}, fmt.Errorf("failed to list session starts: %w", err)
	}

	return ReconcileInput{
		Calendar: s.cal,
		Month:    month,
		Configs:  configs,
		Holidays: holidays,
		Requests: requests,
		Samples:  samples,
		Sessions: sessions,
	}, nil
}

func (s *AttendanceServiceImpl) GetMonthFact(ctx context.Context, userID, month string) (attendance.MonthFactResponse, error) {
	m, err := s.cal.ParseMonth(month)
	if err != nil {
		return attendance.MonthFactResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}
	fact, err := s.factRepo.GetByUserMonth(ctx, userID, m.Start)
	if err != nil {
		return attendance.MonthFactResponse{}, err
	}
	return attendance.NewMonthFactResponse(fact), nil
}

func (s *AttendanceServiceImpl) ListMonthFacts(ctx context.Context, filter attendance.MonthFactFilter) ([]attendance.MonthFactResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	from, err := s.cal.ParseMonth(filter.FromMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}
	to, err := s.cal.ParseMonth(filter.ToMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}

	facts, err := s.factRepo.ListByUserRange(ctx, filter.UserID, from.Start, to.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list month facts: %w", err)
	}
	responses := make([]attendance.MonthFactResponse, 0, len(facts))
	for _, f := range facts {
		responses = append(responses, attendance.NewMonthFactResponse(f))
	}
	return responses, nil
}
