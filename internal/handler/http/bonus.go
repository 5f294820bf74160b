package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/middleware"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/response"
)

type BonusHandler interface {
	EnsureKPICandidate(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	OverrideAmount(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type bonusHandlerImpl struct {
	bonusService payroll.BonusService
}

func NewBonusHandler(bonusService payroll.BonusService) BonusHandler {
	return &bonusHandlerImpl{bonusService: bonusService}
}

func (h *bonusHandlerImpl) EnsureKPICandidate(w http.ResponseWriter, r *http.Request) {
	var req payroll.EnsureKPICandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.bonusService.EnsureKPICandidate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bonusHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req payroll.DecideBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.BonusID = chi.URLParam(r, "id")
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.bonusService.DecideKPIBonus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus decided", result)
}

func (h *bonusHandlerImpl) OverrideAmount(w http.ResponseWriter, r *http.Request) {
	var req payroll.OverrideBonusAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.BonusID = chi.URLParam(r, "id")
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.bonusService.OverrideBonusAmount(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus amount updated", result)
}

func (h *bonusHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	result, err := h.bonusService.ListBonuses(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}
