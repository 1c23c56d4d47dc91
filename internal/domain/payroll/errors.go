package payroll

import "errors"

var (
	ErrPeriodNotFound      = errors.New("payroll period not found")
	ErrInvalidPeriodState  = errors.New("payroll period is not in the required state")
	ErrPeriodCompleted     = errors.New("payroll period is completed and immutable")
	ErrStubNotFound        = errors.New("pay stub not found")
	ErrNoBaseSalary        = errors.New("employee has no base salary configured")
	ErrNoHourlyRate        = errors.New("hourly employee has no hourly rate configured")
	ErrInvalidPeriodRange  = errors.New("period end must not be before period start")
	ErrSettingsUnavailable = errors.New("payroll settings unavailable")
)
