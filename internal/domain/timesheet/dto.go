package timesheet

type CreateTimesheetRequest struct {
	EmployeeID      string  `json:"-"`
	WorkDate        string  `json:"work_date"`
	Hours           float64 `json:"hours"`
	PayrollPeriodID *string `json:"payroll_period_id,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateTimesheetRequest struct {
	ID       string   `json:"-"`
	Hours    *float64 `json:"hours,omitempty"`
	WorkDate *string  `json:"work_date,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type RejectTimesheetRequest struct {
	Reason string `json:"reason"`
}

type BulkActionRequest struct {
	IDs    []string `json:"ids"`
	Reason string   `json:"reason,omitempty"`
}

type TimesheetResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	WorkDate      string  `json:"work_date"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
}

// Enrich projects a timesheet plus its read-time display fields into a
// response DTO.
func Enrich(ts Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:            ts.ID,
		EmployeeID:    ts.EmployeeID,
		WorkDate:      ts.WorkDate.Format("2006-01-02"),
		Hours:         ts.Hours,
		RegularHours:  ts.RegularHours,
		OvertimeHours: ts.OvertimeHours,
		Status:        string(ts.Status),
		Notes:         ts.Notes,
	}
	if ts.EmployeeName != nil {
		resp.EmployeeName = *ts.EmployeeName
	}
	return resp
}
