package payroll

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/validator"
)

// ========== BONUS DTOs ==========

type EnsureKPICandidateRequest struct {
	UserID  string  `json:"user_id" validate:"required"`
	Month   string  `json:"month" validate:"required,month"`
	ActorID *string `json:"-"`
}

func (r *EnsureKPICandidateRequest) Validate() error {
	return validator.Struct(r)
}

type DecideBonusRequest struct {
	BonusID  string           `json:"-" validate:"required"`
	Decision BonusStatus      `json:"decision" validate:"required,oneof=APPROVED DENIED"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Reason   *string          `json:"reason,omitempty" validate:"omitempty,max=500"`
	ActorID  *string          `json:"-"`
}

func (r *DecideBonusRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return validator.ValidationErrors{{Field: "amount", Message: "must be non-negative"}}
	}
	return nil
}

type OverrideBonusAmountRequest struct {
	BonusID string          `json:"-" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  *string         `json:"reason,omitempty" validate:"omitempty,max=500"`
	ActorID *string         `json:"-"`
}

func (r *OverrideBonusAmountRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return validator.ValidationErrors{{Field: "amount", Message: "must be non-negative"}}
	}
	return nil
}

type BonusResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Type           BonusType       `json:"type"`
	SourceMonth    time.Time       `json:"source_month"`
	Status         BonusStatus     `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	PayableDate    *time.Time      `json:"payable_date,omitempty"`
	QuarterKey     *string         `json:"quarter_key,omitempty"`
	Reason         *string         `json:"reason,omitempty"`
	DecidedAt      *time.Time      `json:"decided_at,omitempty"`
	DecisionByID   *string         `json:"decision_by_id,omitempty"`
	PayrollCheckID *string         `json:"payroll_check_id,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

func NewBonusResponse(b Bonus) BonusResponse {
	return BonusResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Type:           b.Type,
		SourceMonth:    b.SourceMonth,
		Status:         b.Status,
		Amount:         b.Amount,
		PayableDate:    b.PayableDate,
		QuarterKey:     b.QuarterKey,
		Reason:         b.Reason,
		DecidedAt:      b.DecidedAt,
		DecisionByID:   b.DecisionByID,
		PayrollCheckID: b.PayrollCheckID,
		PaidAt:         b.PaidAt,
	}
}

// ========== PERIOD DTOs ==========

type EnsurePeriodRequest struct {
	Date string `json:"date" validate:"required,day"`
}

func (r *EnsurePeriodRequest) Validate() error {
	return validator.Struct(r)
}

type UpdatePeriodStatusRequest struct {
	PeriodID string       `json:"-" validate:"required"`
	Status   PeriodStatus `json:"status" validate:"required,oneof=DRAFT APPROVED PAID"`
	ActorID  *string      `json:"-"`
}

func (r *UpdatePeriodStatusRequest) Validate() error {
	return validator.Struct(r)
}

type PeriodResponse struct {
	ID          string       `json:"id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`
	PayDate     time.Time    `json:"pay_date"`
	Status      PeriodStatus `json:"status"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
}

func NewPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		PayDate:     p.PayDate,
		Status:      p.Status,
		PaidAt:      p.PaidAt,
	}
}

// ========== CHECK DTOs ==========

type CheckResponse struct {
	ID                       string          `json:"id"`
	PeriodID                 string          `json:"period_id"`
	UserID                   string          `json:"user_id"`
	BaseAmount               decimal.Decimal `json:"base_amount"`
	MonthlyAttendanceBonus   decimal.Decimal `json:"monthly_attendance_bonus"`
	DeferredMonthlyBonus     decimal.Decimal `json:"deferred_monthly_bonus"`
	QuarterlyAttendanceBonus decimal.Decimal `json:"quarterly_attendance_bonus"`
	KPIBonus                 decimal.Decimal `json:"kpi_bonus"`
	TotalAmount              decimal.Decimal `json:"total_amount"`
	Status                   PeriodStatus    `json:"status"`
	PaidAt                   *time.Time      `json:"paid_at,omitempty"`
	Snapshot                 json.RawMessage `json:"snapshot,omitempty"`
}

func NewCheckResponse(c Check) CheckResponse {
	return CheckResponse{
		ID:                       c.ID,
		PeriodID:                 c.PeriodID,
		UserID:                   c.UserID,
		BaseAmount:               c.BaseAmount,
		MonthlyAttendanceBonus:   c.MonthlyAttendanceBonus,
		DeferredMonthlyBonus:     c.DeferredMonthlyBonus,
		QuarterlyAttendanceBonus: c.QuarterlyAttendanceBonus,
		KPIBonus:                 c.KPIBonus,
		TotalAmount:              c.TotalAmount,
		Status:                   c.Status,
		PaidAt:                   c.PaidAt,
		Snapshot:                 c.Snapshot,
	}
}
