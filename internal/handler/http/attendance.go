package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/middleware"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/response"
)

type AttendanceHandler interface {
	Recalculate(w http.ResponseWriter, r *http.Request)
	Finalize(w http.ResponseWriter, r *http.Request)
	GetMonthFact(w http.ResponseWriter, r *http.Request)
	ListMonthFacts(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *attendanceHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecalculateMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.attendanceService.RecalculateMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance month recalculated", result)
}

func (h *attendanceHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	var req attendance.FinalizeMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.attendanceService.FinalizeMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance month finalized", result)
}

func (h *attendanceHandlerImpl) GetMonthFact(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	month := chi.URLParam(r, "month")

	result, err := h.attendanceService.GetMonthFact(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) ListMonthFacts(w http.ResponseWriter, r *http.Request) {
	filter := attendance.MonthFactFilter{
		UserID:    chi.URLParam(r, "userID"),
		FromMonth: r.URL.Query().Get("from"),
		ToMonth:   r.URL.Query().Get("to"),
	}

	result, err := h.attendanceService.ListMonthFacts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}
