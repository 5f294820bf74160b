package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
	employeeservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/employee"
)

// firstHalfLastDay is the last day of the first semi-monthly period.
const firstHalfLastDay = 15

type SettlementServiceImpl struct {
	tx           database.Transactor
	cal          *calendar.Calendar
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	configs      *employeeservice.ConfigResolverImpl
	auditSink    audit.Sink
	now          func() time.Time
}

// NewSettlementService returns the semi-monthly settlement. A nil now uses
// time.Now.
func NewSettlementService(
	tx database.Transactor,
	cal *calendar.Calendar,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	configRepo employee.ConfigRepository,
	auditSink audit.Sink,
	now func() time.Time,
) payroll.SettlementService {
	if now == nil {
		now = time.Now
	}
	return &SettlementServiceImpl{
		tx:           tx,
		cal:          cal,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		configs:      employeeservice.NewConfigResolver(configRepo),
		auditSink:    auditSink,
		now:          now,
	}
}

type periodAuditPayload struct {
	Action     string               `json:"action"`
	From       payroll.PeriodStatus `json:"from,omitempty"`
	Status     payroll.PeriodStatus `json:"status"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	PaidAt     *time.Time           `json:"paid_at,omitempty"`
	CheckCount *int                 `json:"check_count,omitempty"`
	Total      *decimal.Decimal     `json:"total,omitempty"`
	// RemovedUserIDs lists users whose check from an earlier recalculation
	// was dropped because this run no longer produced one.
	RemovedUserIDs []string `json:"removed_user_ids,omitempty"`
	// SkippedBonusIDs lists APPROVED bonuses payable on the pay date whose
	// user is not active. They stay unattached.
	SkippedBonusIDs []string `json:"skipped_bonus_ids,omitempty"`
}

// checkSnapshot is stored on each check. It holds no timestamps of its own so
// an unchanged recalculation produces the same bytes.
type checkSnapshot struct {
	StartDate   string                     `json:"start_date"`
	EndDate     string                     `json:"end_date"`
	PayDate     time.Time                  `json:"pay_date"`
	ConfigID    *string                    `json:"config_id"`
	EffectiveOn *time.Time                 `json:"effective_on"`
	Base        decimal.Decimal            `json:"base"`
	Bonuses     []checkSnapshotBonus       `json:"bonuses"`
	Totals      map[string]decimal.Decimal `json:"totals"`
}

type checkSnapshotBonus struct {
	ID          string            `json:"id"`
	Type        payroll.BonusType `json:"type"`
	SourceMonth string            `json:"source_month"`
	Amount      decimal.Decimal   `json:"amount"`
}

func (s *SettlementServiceImpl) ResolvePeriod(t time.Time) payroll.Period {
	month := s.cal.MonthOf(t)
	local := s.cal.In(t)
	lastOfMonth := s.cal.LastDay(month)

	var first, last calendar.Day
	var payDate time.Time
	if local.Day() <= firstHalfLastDay {
		first = s.cal.DayFor(month.Year, month.Month, 1)
		last = s.cal.DayFor(month.Year, month.Month, firstHalfLastDay)
		payDate = s.cal.NoonOn(month.Year, month.Month, s.cal.In(lastOfMonth.Start).Day())
	} else {
		first = s.cal.DayFor(month.Year, month.Month, firstHalfLastDay+1)
		last = lastOfMonth
		next := s.cal.AddMonths(month, 1)
		payDate = s.cal.NoonOn(next.Year, next.Month, payDay)
	}

	return payroll.Period{
		PeriodStart: first.Start,
		PeriodEnd:   last.End,
		StartDate:   first.Key,
		EndDate:     last.Key,
		PayDate:     payDate,
		Status:      payroll.PeriodStatusDraft,
	}
}

func (s *SettlementServiceImpl) EnsurePayrollPeriod(ctx context.Context, t time.Time, actorID *string) (payroll.PeriodResponse, error) {
	var period payroll.Period
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.ensurePeriod(ctx, t, actorID)
		return err
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(period), nil
}

func (s *SettlementServiceImpl) ensurePeriod(ctx context.Context, t time.Time, actorID *string) (payroll.Period, error) {
	period, created, err := s.payrollRepo.EnsurePeriod(ctx, s.ResolvePeriod(t))
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to ensure payroll period: %w", err)
	}
	if !created {
		return period, nil
	}
	if err := s.record(ctx, actorID, period, periodAuditPayload{Action: "created", Status: period.Status}); err != nil {
		return payroll.Period{}, err
	}
	return period, nil
}

func (s *SettlementServiceImpl) RecalcPayrollPeriod(ctx context.Context, periodID string, actorID *string) ([]payroll.CheckResponse, error) {
	var checks []payroll.Check
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		checks, err = s.recalc(ctx, period, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCheckResponses(checks), nil
}

func (s *SettlementServiceImpl) recalc(ctx context.Context, period payroll.Period, actorID *string) ([]payroll.Check, error) {
	if period.Status == payroll.PeriodStatusPaid {
		return nil, payroll.ErrPayrollPeriodAlreadyPaid
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	payable, err := s.payrollRepo.ListApprovedBonusesPayableOn(ctx, period.PayDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list payable bonuses: %w", err)
	}
	bonusesByUser := make(map[string][]payroll.Bonus)
	for _, b := range payable {
		bonusesByUser[b.UserID] = append(bonusesByUser[b.UserID], b)
	}

	existing, err := s.payrollRepo.ListChecksByPeriod(ctx, period.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing checks: %w", err)
	}

	active := make(map[string]bool, len(employees))
	for _, emp := range employees {
		active[emp.ID] = true
	}
	var skipped []string
	for _, b := range payable {
		if !active[b.UserID] {
			skipped = append(skipped, b.ID)
		}
	}
	sort.Strings(skipped)

	rebuilt := make(map[string]bool, len(employees))
	checks := make([]payroll.Check, 0, len(employees))
	total := decimal.Zero
	for _, emp := range employees {
		cfg, err := s.configs.EffectiveConfig(ctx, emp.ID, period.PeriodStart)
		if err != nil {
			return nil, err
		}
		bonuses := bonusesByUser[emp.ID]
		if cfg == nil && len(bonuses) == 0 {
			continue
		}

		check, err := s.buildCheck(period, emp.ID, cfg, bonuses)
		if err != nil {
			return nil, err
		}
		saved, err := s.payrollRepo.UpsertCheck(ctx, check)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert check for employee %s: %w", emp.ID, err)
		}

		if err := s.payrollRepo.DetachBonusesFromCheck(ctx, saved.ID); err != nil {
			return nil, fmt.Errorf("failed to detach bonuses: %w", err)
		}
		if len(bonuses) > 0 {
			ids := make([]string, 0, len(bonuses))
			for _, b := range bonuses {
				ids = append(ids, b.ID)
			}
			if err := s.payrollRepo.AttachBonusesToCheck(ctx, saved.ID, ids); err != nil {
				return nil, fmt.Errorf("failed to attach bonuses: %w", err)
			}
		}

		rebuilt[emp.ID] = true
		checks = append(checks, saved)
		total = total.Add(saved.TotalAmount)
	}

	var removed []string
	for _, c := range existing {
		if rebuilt[c.UserID] {
			continue
		}
		if err := s.payrollRepo.DetachBonusesFromCheck(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("failed to detach bonuses: %w", err)
		}
		if err := s.payrollRepo.DeleteCheck(ctx, period.ID, c.UserID); err != nil {
			return nil, fmt.Errorf("failed to delete check for employee %s: %w", c.UserID, err)
		}
		removed = append(removed, c.UserID)
	}

	count := len(checks)
	err = s.record(ctx, actorID, period, periodAuditPayload{
		Action:          "recalculated",
		Status:          period.Status,
		CheckCount:      &count,
		Total:           &total,
		RemovedUserIDs:  removed,
		SkippedBonusIDs: skipped,
	})
	if err != nil {
		return nil, err
	}
	return checks, nil
}

func (s *SettlementServiceImpl) buildCheck(period payroll.Period, userID string, cfg *employee.Config, bonuses []payroll.Bonus) (payroll.Check, error) {
	snap := checkSnapshot{
		StartDate: period.StartDate,
		EndDate:   period.EndDate,
		PayDate:   period.PayDate,
		Base:      decimal.Zero,
		Bonuses:   make([]checkSnapshotBonus, 0, len(bonuses)),
	}
	if cfg != nil {
		id, effectiveOn := cfg.ID, cfg.EffectiveOn
		snap.ConfigID = &id
		snap.EffectiveOn = &effectiveOn
		snap.Base = cfg.BaseSemiMonthlySalary
	}

	monthly, quarterly, kpi := decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range bonuses {
		switch b.Type {
		case payroll.BonusTypeMonthlyAttendance:
			monthly = monthly.Add(b.Amount)
		case payroll.BonusTypeQuarterlyAttendance:
			quarterly = quarterly.Add(b.Amount)
		case payroll.BonusTypeKPI:
			kpi = kpi.Add(b.Amount)
		}
		snap.Bonuses = append(snap.Bonuses, checkSnapshotBonus{
			ID:          b.ID,
			Type:        b.Type,
			SourceMonth: s.cal.MonthOf(b.SourceMonth).Key,
			Amount:      b.Amount,
		})
	}
	// Deferred monthly bonuses are not implemented yet and always settle at zero.
	deferred := decimal.Zero
	total := snap.Base.Add(monthly).Add(deferred).Add(quarterly).Add(kpi)

	snap.Totals = map[string]decimal.Decimal{
		"base":                       snap.Base,
		"monthly_attendance_bonus":   monthly,
		"deferred_monthly_bonus":     deferred,
		"quarterly_attendance_bonus": quarterly,
		"kpi_bonus":                  kpi,
		"total":                      total,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return payroll.Check{}, fmt.Errorf("failed to marshal check snapshot: %w", err)
	}

	return payroll.Check{
		PeriodID:                 period.ID,
		UserID:                   userID,
		BaseAmount:               snap.Base,
		MonthlyAttendanceBonus:   monthly,
		DeferredMonthlyBonus:     deferred,
		QuarterlyAttendanceBonus: quarterly,
		KPIBonus:                 kpi,
		TotalAmount:              total,
		Status:                   period.Status,
		Snapshot:                 raw,
	}, nil
}

func (s *SettlementServiceImpl) UpdatePeriodStatus(ctx context.Context, req payroll.UpdatePeriodStatusRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	var period payroll.Period
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.payrollRepo.GetPeriodByID(ctx, req.PeriodID)
		if err != nil {
			return err
		}
		if current.Status == req.Status {
			period = current
			return nil
		}
		if current.Status == payroll.PeriodStatusPaid {
			return payroll.ErrPayrollPeriodAlreadyPaid
		}
		if !current.Status.CanMoveTo(req.Status) {
			return fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusTransition, current.Status, req.Status)
		}

		var paidAt *time.Time
		if req.Status == payroll.PeriodStatusPaid {
			now := s.now().UTC()
			paidAt = &now
			if err := s.payrollRepo.MarkChecksPaid(ctx, current.ID, now); err != nil {
				return fmt.Errorf("failed to mark checks paid: %w", err)
			}
			if err := s.payrollRepo.MarkBonusesPaidForPeriod(ctx, current.ID, now); err != nil {
				return fmt.Errorf("failed to mark bonuses paid: %w", err)
			}
		}

		period, err = s.payrollRepo.UpdatePeriodStatus(ctx, current.ID, req.Status, paidAt)
		if err != nil {
			return fmt.Errorf("failed to update period status: %w", err)
		}
		return s.record(ctx, req.ActorID, period, periodAuditPayload{
			Action: "status_changed",
			From:   current.Status,
			Status: period.Status,
			PaidAt: period.PaidAt,
		})
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(period), nil
}

func (s *SettlementServiceImpl) EnsureAndRecalcPeriod(ctx context.Context, t time.Time) (payroll.PeriodResponse, error) {
	var period payroll.Period
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.ensurePeriod(ctx, t, nil)
		if err != nil {
			return err
		}
		if period.Status == payroll.PeriodStatusPaid {
			return nil
		}
		_, err = s.recalc(ctx, period, nil)
		return err
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(period), nil
}

func (s *SettlementServiceImpl) GetPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(period), nil
}

func (s *SettlementServiceImpl) ListChecks(ctx context.Context, periodID string) ([]payroll.CheckResponse, error) {
	if _, err := s.payrollRepo.GetPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	checks, err := s.payrollRepo.ListChecksByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	return toCheckResponses(checks), nil
}

func (s *SettlementServiceImpl) GetCheck(ctx context.Context, periodID, userID string) (payroll.CheckResponse, error) {
	check, err := s.payrollRepo.GetCheck(ctx, periodID, userID)
	if err != nil {
		return payroll.CheckResponse{}, err
	}
	return payroll.NewCheckResponse(check), nil
}

func (s *SettlementServiceImpl) record(ctx context.Context, actorID *string, period payroll.Period, payload periodAuditPayload) error {
	payload.StartDate = period.StartDate
	payload.EndDate = period.EndDate
	entry, err := audit.NewEntry(actorID, audit.EntityPayrollPeriod, period.ID, audit.EventPayrollStatusChanged, payload)
	if err != nil {
		return err
	}
	if err := s.auditSink.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func toCheckResponses(checks []payroll.Check) []payroll.CheckResponse {
	responses := make([]payroll.CheckResponse, 0, len(checks))
	for _, c := range checks {
		responses = append(responses, payroll.NewCheckResponse(c))
	}
	return responses
}
