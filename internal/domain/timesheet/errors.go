package timesheet

import "errors"

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrDuplicateEntry    = errors.New("a timesheet already exists for this employee and day")
	ErrNotEditable       = errors.New("only draft timesheets can be edited")
	ErrAlreadyProcessed  = errors.New("timesheet already processed")
	ErrNotOwner          = errors.New("timesheet belongs to another employee")
)
