package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/workflow"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not allowed to act on this resource")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrPolicyNotConfigured):
		BadRequest(w, "No policy is configured for this leave type", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotApproved):
		Conflict(w, "Only approved leave requests can be cancelled")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrDuplicateEntry):
		Conflict(w, "A timesheet already exists for this day")
	case errors.Is(err, timesheet.ErrNotEditable):
		Conflict(w, "Only draft timesheets can be edited")
	case errors.Is(err, timesheet.ErrAlreadyProcessed):
		Conflict(w, "Timesheet already processed")
	case errors.Is(err, timesheet.ErrNotOwner):
		Forbidden(w, "Timesheet belongs to another employee")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrStubNotFound):
		NotFound(w, "Pay stub not found")
	case errors.Is(err, payroll.ErrInvalidPeriodState):
		Conflict(w, "Payroll period is not in the required state")
	case errors.Is(err, payroll.ErrPeriodCompleted):
		Conflict(w, "Payroll period is completed and immutable")
	case errors.Is(err, payroll.ErrInvalidPeriodRange):
		BadRequest(w, "Invalid payroll period date range", nil)
	case errors.Is(err, payroll.ErrSettingsUnavailable):
		InternalServerError(w, "Payroll settings are unavailable")

	// Workflow errors
	case errors.Is(err, workflow.ErrReasonRequired):
		BadRequest(w, "A rejection reason is required", nil)
	case errors.Is(err, workflow.ErrInvalidTransition):
		Conflict(w, "Invalid state transition")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
