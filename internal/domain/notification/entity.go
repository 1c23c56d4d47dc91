package notification

import "time"

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Payload   map[string]any
	CreatedAt time.Time
	ReadAt    *time.Time
}

const (
	TypeTimesheetSubmitted = "timesheet.submitted"
	TypeTimesheetApproved  = "timesheet.approved"
	TypeTimesheetRejected  = "timesheet.rejected"
	TypeLeaveSubmitted     = "leave.submitted"
	TypeLeaveApproved      = "leave.approved"
	TypeLeaveRejected      = "leave.rejected"
	TypePayrollProcessed   = "payroll.processed"
	TypePayrollApproved    = "payroll.approved"
)
