package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/audit"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
	employeeservice "github.com/vt-ctyhp/attendance-system-sub004/internal/service/employee"
)

const (
	ReasonAttendanceNotPerfect = "Attendance not perfect"
	ReasonQuarterNotPerfect    = "Quarter not fully finalized with perfect attendance"

	// payDay is the day of month attendance and KPI bonuses are paid on.
	payDay = 15
)

type BonusServiceImpl struct {
	tx          database.Transactor
	cal         *calendar.Calendar
	payrollRepo payroll.PayrollRepository
	factRepo    attendance.MonthFactRepository
	configs     *employeeservice.ConfigResolverImpl
	auditSink   audit.Sink
	now         func() time.Time
}

// NewBonusService returns the bonus synchronizer and KPI decision path.
// A nil now uses time.Now.
func NewBonusService(
	tx database.Transactor,
	cal *calendar.Calendar,
	payrollRepo payroll.PayrollRepository,
	factRepo attendance.MonthFactRepository,
	configRepo employee.ConfigRepository,
	auditSink audit.Sink,
	now func() time.Time,
) payroll.BonusService {
	if now == nil {
		now = time.Now
	}
	return &BonusServiceImpl{
		tx:          tx,
		cal:         cal,
		payrollRepo: payrollRepo,
		factRepo:    factRepo,
		configs:     employeeservice.NewConfigResolver(configRepo),
		auditSink:   auditSink,
		now:         now,
	}
}

type bonusAuditPayload struct {
	Type           payroll.BonusType   `json:"type"`
	Status         payroll.BonusStatus `json:"status"`
	PreviousStatus payroll.BonusStatus `json:"previous_status,omitempty"`
	Amount         decimal.Decimal     `json:"amount"`
	PreviousAmount *decimal.Decimal    `json:"previous_amount,omitempty"`
	SourceMonth    string              `json:"source_month"`
	QuarterKey     *string             `json:"quarter_key,omitempty"`
	PayableDate    *time.Time          `json:"payable_date"`
	Reason         *string             `json:"reason,omitempty"`
}

// ========== ATTENDANCE BONUSES ==========

func (s *BonusServiceImpl) SyncAttendanceBonuses(ctx context.Context, userID, month string, actorID *string) error {
	m, err := s.cal.ParseMonth(month)
	if err != nil {
		return fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		fact, err := s.factRepo.GetByUserMonth(ctx, userID, m.Start)
		if err != nil {
			if errors.Is(err, attendance.ErrMonthFactNotFound) {
				return payroll.ErrMonthNotFinalized
			}
			return fmt.Errorf("failed to get month fact: %w", err)
		}
		if !fact.IsFinalized() || fact.FinalizedAt == nil {
			return payroll.ErrMonthNotFinalized
		}

		if err := s.syncMonthly(ctx, fact, m, actorID); err != nil {
			return err
		}
		return s.syncQuarterly(ctx, userID, m, actorID)
	})
}

func (s *BonusServiceImpl) syncMonthly(ctx context.Context, fact attendance.MonthFact, m calendar.Month, actorID *string) error {
	existing, found, err := s.findBonus(ctx, fact.UserID, payroll.BonusTypeMonthlyAttendance, m.Start)
	if err != nil {
		return err
	}
	if found && existing.Status == payroll.BonusStatusPaid {
		return nil
	}

	if !fact.IsPerfect {
		if !found || existing.Status == payroll.BonusStatusDenied {
			return nil
		}
		return s.deny(ctx, existing, ReasonAttendanceNotPerfect, actorID)
	}

	cfg, err := s.configs.EffectiveConfig(ctx, fact.UserID, m.Start)
	if err != nil {
		return err
	}
	if cfg == nil || !cfg.MonthlyAttendanceBonus.IsPositive() {
		return nil
	}

	payable := s.firstPayDayAfter(m, *fact.FinalizedAt)
	return s.approve(ctx, existing, found, payroll.Bonus{
		UserID:      fact.UserID,
		Type:        payroll.BonusTypeMonthlyAttendance,
		SourceMonth: m.Start,
		Amount:      cfg.MonthlyAttendanceBonus,
		PayableDate: &payable,
	}, actorID)
}

func (s *BonusServiceImpl) syncQuarterly(ctx context.Context, userID string, m calendar.Month, actorID *string) error {
	q := s.cal.QuarterOf(m)
	existing, found, err := s.findBonus(ctx, userID, payroll.BonusTypeQuarterlyAttendance, q.Start())
	if err != nil {
		return err
	}
	if found && existing.Status == payroll.BonusStatusPaid {
		return nil
	}

	facts, err := s.factRepo.ListByUserRange(ctx, userID, q.Start(), q.End())
	if err != nil {
		return fmt.Errorf("failed to list quarter facts: %w", err)
	}
	finalized, perfect := 0, true
	for _, f := range facts {
		if f.IsFinalized() {
			finalized++
			perfect = perfect && f.IsPerfect
		}
	}

	if finalized != len(q.Months) || !perfect {
		if !found || existing.Status == payroll.BonusStatusDenied {
			return nil
		}
		return s.deny(ctx, existing, ReasonQuarterNotPerfect, actorID)
	}

	lastMonth := q.Months[len(q.Months)-1]
	cfg, err := s.configs.EffectiveConfig(ctx, userID, lastMonth.Start)
	if err != nil {
		return err
	}
	if cfg == nil || !cfg.QuarterlyAttendanceBonus.IsPositive() {
		return nil
	}

	payable := s.cal.NoonOn(lastMonth.Year, lastMonth.Month+1, payDay)
	quarterKey := q.Key
	return s.approve(ctx, existing, found, payroll.Bonus{
		UserID:      userID,
		Type:        payroll.BonusTypeQuarterlyAttendance,
		SourceMonth: q.Start(),
		Amount:      cfg.QuarterlyAttendanceBonus,
		PayableDate: &payable,
		QuarterKey:  &quarterKey,
	}, actorID)
}

// approve upserts next as APPROVED unless existing already says the same.
func (s *BonusServiceImpl) approve(ctx context.Context, existing payroll.Bonus, found bool, next payroll.Bonus, actorID *string) error {
	if found && existing.Status == payroll.BonusStatusApproved &&
		existing.Amount.Equal(next.Amount) && sameInstant(existing.PayableDate, next.PayableDate) {
		return nil
	}

	now := s.now().UTC()
	next.Status = payroll.BonusStatusApproved
	next.DecidedAt = &now
	next.DecisionByID = actorID
	if found && sameInstant(existing.PayableDate, next.PayableDate) {
		next.PayrollCheckID = existing.PayrollCheckID
	}
	_, err := s.saveBonus(ctx, next, existing, found, actorID)
	return err
}

func (s *BonusServiceImpl) deny(ctx context.Context, existing payroll.Bonus, reason string, actorID *string) error {
	now := s.now().UTC()
	next := existing
	next.Status = payroll.BonusStatusDenied
	next.Reason = &reason
	next.PayableDate = nil
	next.PayrollCheckID = nil
	next.DecidedAt = &now
	next.DecisionByID = actorID
	_, err := s.saveBonus(ctx, next, existing, true, actorID)
	return err
}

// saveBonus upserts b and records one BONUS_DECISION entry.
func (s *BonusServiceImpl) saveBonus(ctx context.Context, b payroll.Bonus, previous payroll.Bonus, hadPrevious bool, actorID *string) (payroll.Bonus, error) {
	saved, err := s.payrollRepo.UpsertBonus(ctx, b)
	if err != nil {
		return payroll.Bonus{}, fmt.Errorf("failed to upsert bonus: %w", err)
	}

	payload := bonusAuditPayload{
		Type:        saved.Type,
		Status:      saved.Status,
		Amount:      saved.Amount,
		SourceMonth: s.cal.MonthOf(saved.SourceMonth).Key,
		QuarterKey:  saved.QuarterKey,
		PayableDate: saved.PayableDate,
		Reason:      saved.Reason,
	}
	if hadPrevious {
		payload.PreviousStatus = previous.Status
		if !previous.Amount.Equal(saved.Amount) {
			prev := previous.Amount
			payload.PreviousAmount = &prev
		}
	}

	entry, err := audit.NewEntry(actorID, audit.EntityPayrollBonus, saved.ID, audit.EventBonusDecision, payload)
	if err != nil {
		return payroll.Bonus{}, err
	}
	if err := s.auditSink.Append(ctx, entry); err != nil {
		return payroll.Bonus{}, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return saved, nil
}

func (s *BonusServiceImpl) findBonus(ctx context.Context, userID string, bonusType payroll.BonusType, sourceMonth time.Time) (payroll.Bonus, bool, error) {
	b, err := s.payrollRepo.GetBonusByKey(ctx, userID, bonusType, sourceMonth)
	if err != nil {
		if errors.Is(err, payroll.ErrBonusNotFound) {
			return payroll.Bonus{}, false, nil
		}
		return payroll.Bonus{}, false, fmt.Errorf("failed to get bonus: %w", err)
	}
	return b, true, nil
}

// firstPayDayAfter returns the first 15th at local noon strictly after t,
// looking no earlier than the month after source.
func (s *BonusServiceImpl) firstPayDayAfter(source calendar.Month, t time.Time) time.Time {
	m := s.cal.AddMonths(source, 1)
	for {
		candidate := s.cal.NoonOn(m.Year, m.Month, payDay)
		if candidate.After(t) {
			return candidate
		}
		m = s.cal.AddMonths(m, 1)
	}
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ========== KPI BONUSES ==========

func (s *BonusServiceImpl) EnsureKPICandidate(ctx context.Context, req payroll.EnsureKPICandidateRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}
	m, err := s.cal.ParseMonth(req.Month)
	if err != nil {
		return payroll.BonusResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidMonth, err)
	}

	var result payroll.Bonus
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cfg, err := s.configs.EffectiveConfig(ctx, req.UserID, m.Start)
		if err != nil {
			return err
		}
		if cfg == nil || !cfg.KPIBonusEnabled {
			return payroll.ErrKPIBonusNotEnabled
		}

		existing, found, err := s.findBonus(ctx, req.UserID, payroll.BonusTypeKPI, m.Start)
		if err != nil {
			return err
		}
		if found {
			result = existing
			return nil
		}

		result, err = s.saveBonus(ctx, payroll.Bonus{
			UserID:      req.UserID,
			Type:        payroll.BonusTypeKPI,
			SourceMonth: m.Start,
			Status:      payroll.BonusStatusPending,
			Amount:      cfg.KPIBonusDefaultAmount,
		}, payroll.Bonus{}, false, req.ActorID)
		return err
	})
	if err != nil {
		return payroll.BonusResponse{}, err
	}
	return payroll.NewBonusResponse(result), nil
}

func (s *BonusServiceImpl) DecideKPIBonus(ctx context.Context, req payroll.DecideBonusRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}

	var result payroll.Bonus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetBonusByID(ctx, req.BonusID)
		if err != nil {
			return err
		}
		if existing.Type != payroll.BonusTypeKPI {
			return payroll.ErrBonusNotDecidable
		}
		if existing.Status == payroll.BonusStatusPaid {
			return payroll.ErrBonusAlreadyPaid
		}

		now := s.now().UTC()
		next := existing
		next.Reason = req.Reason
		next.DecidedAt = &now
		next.DecisionByID = req.ActorID

		switch req.Decision {
		case payroll.BonusStatusApproved:
			amount, err := s.kpiAmount(ctx, existing, req.Amount)
			if err != nil {
				return err
			}
			payable := s.firstPayDayAfter(s.cal.MonthOf(existing.SourceMonth), now)
			next.Status = payroll.BonusStatusApproved
			next.Amount = amount
			next.PayableDate = &payable
			if !sameInstant(existing.PayableDate, next.PayableDate) {
				next.PayrollCheckID = nil
			}
		case payroll.BonusStatusDenied:
			next.Status = payroll.BonusStatusDenied
			next.PayableDate = nil
			next.PayrollCheckID = nil
		default:
			return payroll.ErrInvalidBonusDecision
		}

		result, err = s.saveBonus(ctx, next, existing, true, req.ActorID)
		return err
	})
	if err != nil {
		return payroll.BonusResponse{}, err
	}
	return payroll.NewBonusResponse(result), nil
}

// kpiAmount is the requested amount, else the configured default.
func (s *BonusServiceImpl) kpiAmount(ctx context.Context, b payroll.Bonus, requested *decimal.Decimal) (decimal.Decimal, error) {
	amount := decimal.Zero
	if requested != nil {
		amount = *requested
	} else {
		cfg, err := s.configs.EffectiveConfig(ctx, b.UserID, b.SourceMonth)
		if err != nil {
			return decimal.Zero, err
		}
		if cfg != nil {
			amount = cfg.KPIBonusDefaultAmount
		}
	}
	if !amount.IsPositive() {
		return decimal.Zero, payroll.ErrInvalidBonusAmount
	}
	return amount, nil
}

func (s *BonusServiceImpl) OverrideBonusAmount(ctx context.Context, req payroll.OverrideBonusAmountRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}

	var result payroll.Bonus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetBonusByID(ctx, req.BonusID)
		if err != nil {
			return err
		}
		if existing.Status == payroll.BonusStatusPaid {
			return payroll.ErrBonusAlreadyPaid
		}
		if existing.Status == payroll.BonusStatusApproved && !req.Amount.IsPositive() {
			return payroll.ErrInvalidBonusAmount
		}

		next := existing
		next.Amount = req.Amount
		next.DecisionByID = req.ActorID
		if req.Reason != nil {
			next.Reason = req.Reason
		}
		result, err = s.saveBonus(ctx, next, existing, true, req.ActorID)
		return err
	})
	if err != nil {
		return payroll.BonusResponse{}, err
	}
	return payroll.NewBonusResponse(result), nil
}

func (s *BonusServiceImpl) ListBonuses(ctx context.Context, userID string) ([]payroll.BonusResponse, error) {
	bonuses, err := s.payrollRepo.ListBonusesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	responses := make([]payroll.BonusResponse, 0, len(bonuses))
	for _, b := range bonuses {
		responses = append(responses, payroll.NewBonusResponse(b))
	}
	return responses, nil
}
