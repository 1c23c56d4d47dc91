package timesheet

import (
	"context"
	"time"
)

// HourTotals is the summed split over a date range, consumed by payroll.
type HourTotals struct {
	Hours         float64
	RegularHours  float64
	OvertimeHours float64
}

type TimesheetRepository interface {
	// Create relies on the unique (employee_id, work_date) constraint and
	// maps its violation to ErrDuplicateEntry.
	Create(ctx context.Context, ts Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	Update(ctx context.Context, ts Timesheet) error
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Timesheet, error)

	// ExistsForDay reports whether the employee already has an entry on the
	// given day, excluding excludeID when non-empty.
	ExistsForDay(ctx context.Context, employeeID string, day time.Time, excludeID string) (bool, error)

	// SumWeekHours sums hours across submitted and approved entries in
	// [weekStart, weekEnd], excluding excludeID when non-empty.
	SumWeekHours(ctx context.Context, employeeID string, weekStart, weekEnd time.Time, excludeID string) (float64, error)

	// SumApprovedInRange totals approved splits for payroll processing.
	SumApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) (HourTotals, error)

	// Guarded status transitions; zero rows affected yields
	// ErrAlreadyProcessed.
	MarkSubmitted(ctx context.Context, id string, split HourSplit) error
	MarkApproved(ctx context.Context, id, approverID string, at time.Time, split HourSplit) error
	MarkRejected(ctx context.Context, id, approverID, reason string, at time.Time) error
}
