package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/attendance"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/employee"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/payroll"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrActorMissingInToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrOperatorExists):
		Conflict(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrPermissionDenied):
		Forbidden(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrMonthFactNotFound):
		NotFound(w, "Month fact not found")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Bonuses
	case errors.Is(err, payroll.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, payroll.ErrBonusAlreadyPaid):
		Conflict(w, "Bonus already paid")
	case errors.Is(err, payroll.ErrBonusNotDecidable):
		Conflict(w, "Only KPI bonuses can be decided manually")
	case errors.Is(err, payroll.ErrKPIBonusNotEnabled):
		Conflict(w, "KPI bonus is not enabled for this employee")
	case errors.Is(err, payroll.ErrMonthNotFinalized):
		Conflict(w, "Attendance month is not finalized")
	case errors.Is(err, payroll.ErrInvalidBonusAmount), errors.Is(err, payroll.ErrInvalidBonusDecision):
		BadRequest(w, err.Error(), nil)

	// Payroll periods
	case errors.Is(err, payroll.ErrPayrollPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPayrollCheckNotFound):
		NotFound(w, "Payroll check not found")
	case errors.Is(err, payroll.ErrPayrollPeriodAlreadyPaid):
		Conflict(w, "Payroll period already paid")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
