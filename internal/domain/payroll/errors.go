package payroll

import "errors"

var (
	ErrBonusNotFound            = errors.New("payroll bonus not found")
	ErrBonusAlreadyPaid         = errors.New("payroll bonus already paid, cannot modify")
	ErrBonusNotDecidable        = errors.New("only KPI bonuses can be decided manually")
	ErrKPIBonusNotEnabled       = errors.New("KPI bonus is not enabled for this employee")
	ErrInvalidBonusAmount       = errors.New("bonus amount must be greater than zero")
	ErrInvalidBonusDecision     = errors.New("decision must be APPROVED or DENIED")
	ErrMonthNotFinalized        = errors.New("attendance month is not finalized")
	ErrPayrollPeriodNotFound    = errors.New("payroll period not found")
	ErrPayrollPeriodAlreadyPaid = errors.New("payroll period already paid, cannot modify")
	ErrInvalidStatusTransition  = errors.New("invalid payroll period status transition")
	ErrPayrollCheckNotFound     = errors.New("payroll check not found")
)
