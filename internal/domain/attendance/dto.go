package attendance

import (
	"time"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/validator"
)

type RecalculateMonthRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Month    string  `json:"month" validate:"required,month"`
	Finalize bool    `json:"finalize"`
	ActorID  *string `json:"-"`
}

func (r *RecalculateMonthRequest) Validate() error {
	return validator.Struct(r)
}

type FinalizeMonthRequest struct {
	UserID  string  `json:"user_id" validate:"required"`
	Month   string  `json:"month" validate:"required,month"`
	ActorID *string `json:"-"`
}

func (r *FinalizeMonthRequest) Validate() error {
	return validator.Struct(r)
}

type MonthFactFilter struct {
	UserID    string `json:"user_id" validate:"required"`
	FromMonth string `json:"from" validate:"required,month"`
	ToMonth   string `json:"to" validate:"required,month"` // inclusive
}

func (f *MonthFactFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	if f.ToMonth < f.FromMonth {
		return validator.ValidationErrors{{Field: "to", Message: "must not be before from"}}
	}
	return nil
}

type MonthFactResponse struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"user_id"`
	Month                string        `json:"month"`
	MonthStart           time.Time     `json:"month_start"`
	Status               FactStatus    `json:"status"`
	AssignedHours        float64       `json:"assigned_hours"`
	WorkedHours          float64       `json:"worked_hours"`
	PTOHours             float64       `json:"pto_hours"`
	NonPTOAbsenceHours   float64       `json:"non_pto_absence_hours"`
	TardyMinutes         int           `json:"tardy_minutes"`
	RawMakeUpHours       float64       `json:"raw_make_up_hours"`
	MatchedMakeUpHours   float64       `json:"matched_make_up_hours"`
	UncoveredAfterMakeUp float64       `json:"uncovered_after_make_up"`
	IsPerfect            bool          `json:"is_perfect"`
	Reasons              []string      `json:"reasons"`
	Days                 []DaySnapshot `json:"days"`
	FinalizedAt          *time.Time    `json:"finalized_at,omitempty"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func NewMonthFactResponse(f MonthFact) MonthFactResponse {
	return MonthFactResponse{
		ID:                   f.ID,
		UserID:               f.UserID,
		Month:                f.MonthKey,
		MonthStart:           f.MonthStart,
		Status:               f.Status,
		AssignedHours:        f.AssignedHours,
		WorkedHours:          f.WorkedHours,
		PTOHours:             f.PTOHours,
		NonPTOAbsenceHours:   f.NonPTOAbsenceHours,
		TardyMinutes:         f.TardyMinutes,
		RawMakeUpHours:       f.RawMakeUpHours,
		MatchedMakeUpHours:   f.MatchedMakeUpHours,
		UncoveredAfterMakeUp: f.UncoveredAfterMakeUp,
		IsPerfect:            f.IsPerfect,
		Reasons:              f.Reasons,
		Days:                 f.Days,
		FinalizedAt:          f.FinalizedAt,
		UpdatedAt:            f.UpdatedAt,
	}
}
