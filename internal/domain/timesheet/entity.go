package timesheet

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Timesheet is one employee-day. WorkDate is normalized to start of day and
// unique per (employee, day). RegularHours+OvertimeHours == Hours within
// rounding after every split recalculation.
type Timesheet struct {
	ID              string
	EmployeeID      string
	WorkDate        time.Time
	Hours           float64
	RegularHours    float64
	OvertimeHours   float64
	Status          Status
	PayrollPeriodID *string
	Notes           *string

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined read-model field, populated by the repository at read time.
	EmployeeName *string
}

// Editable reports whether the owning employee may still change the entry.
func (t Timesheet) Editable() bool {
	return t.Status == StatusDraft
}

// HourSplit is the regular/overtime division of a day's hours.
type HourSplit struct {
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}
