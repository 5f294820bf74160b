package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/middleware"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/response"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
)

type PayrollHandler interface {
	EnsurePeriod(w http.ResponseWriter, r *http.Request)
	RecalculatePeriod(w http.ResponseWriter, r *http.Request)
	UpdatePeriodStatus(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListChecks(w http.ResponseWriter, r *http.Request)
	GetCheck(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	settlementService payroll.SettlementService
	cal               *calendar.Calendar
}

func NewPayrollHandler(settlementService payroll.SettlementService, cal *calendar.Calendar) PayrollHandler {
	return &payrollHandlerImpl{settlementService: settlementService, cal: cal}
}

func (h *payrollHandlerImpl) EnsurePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.EnsurePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	day, err := h.cal.ParseDay(req.Date)
	if err != nil {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.settlementService.EnsurePayrollPeriod(r.Context(), day.Start, middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecalculatePeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.settlementService.RecalcPayrollPeriod(r.Context(), id, middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

func (h *payrollHandlerImpl) UpdatePeriodStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePeriodStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PeriodID = chi.URLParam(r, "id")
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.settlementService.UpdatePeriodStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period status updated", result)
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.settlementService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListChecks(w http.ResponseWriter, r *http.Request) {
	result, err := h.settlementService.ListChecks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

func (h *payrollHandlerImpl) GetCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.settlementService.GetCheck(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
