package timesheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

type fakeTimesheetRepo struct {
	mu      sync.Mutex
	entries map[string]timesheet.Timesheet
	nextID  int
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{entries: make(map[string]timesheet.Timesheet)}
}

func (r *fakeTimesheetRepo) Create(_ context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.EmployeeID == ts.EmployeeID && existing.WorkDate.Equal(ts.WorkDate) {
			return timesheet.Timesheet{}, timesheet.ErrDuplicateEntry
		}
	}

	r.nextID++
	ts.ID = fmt.Sprintf("ts-%d", r.nextID)
	r.entries[ts.ID] = ts
	return ts, nil
}

func (r *fakeTimesheetRepo) GetByID(_ context.Context, id string) (timesheet.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.entries[id]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return ts, nil
}

func (r *fakeTimesheetRepo) Update(_ context.Context, ts timesheet.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[ts.ID]; !ok {
		return timesheet.ErrTimesheetNotFound
	}
	r.entries[ts.ID] = ts
	return nil
}

func (r *fakeTimesheetRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]timesheet.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timesheet.Timesheet
	for _, ts := range r.entries {
		if ts.EmployeeID == employeeID && !ts.WorkDate.Before(from) && !ts.WorkDate.After(to) {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (r *fakeTimesheetRepo) ExistsForDay(_ context.Context, employeeID string, day time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ts := range r.entries {
		if ts.ID == excludeID {
			continue
		}
		if ts.EmployeeID == employeeID && ts.WorkDate.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTimesheetRepo) SumWeekHours(_ context.Context, employeeID string, weekStart, weekEnd time.Time, excludeID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, ts := range r.entries {
		if ts.ID == excludeID || ts.EmployeeID != employeeID {
			continue
		}
		if ts.Status != timesheet.StatusSubmitted && ts.Status != timesheet.StatusApproved {
			continue
		}
		if ts.WorkDate.Before(weekStart) || ts.WorkDate.After(weekEnd) {
			continue
		}
		total += ts.Hours
	}
	return total, nil
}

func (r *fakeTimesheetRepo) SumApprovedInRange(_ context.Context, employeeID string, from, to time.Time) (timesheet.HourTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var totals timesheet.HourTotals
	for _, ts := range r.entries {
		if ts.EmployeeID != employeeID || ts.Status != timesheet.StatusApproved {
			continue
		}
		if ts.WorkDate.Before(from) || ts.WorkDate.After(to) {
			continue
		}
		totals.Hours += ts.Hours
		totals.RegularHours += ts.RegularHours
		totals.OvertimeHours += ts.OvertimeHours
	}
	return totals, nil
}

func (r *fakeTimesheetRepo) MarkSubmitted(_ context.Context, id string, split timesheet.HourSplit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.entries[id]
	if !ok || ts.Status != timesheet.StatusDraft {
		return timesheet.ErrAlreadyProcessed
	}
	ts.Status = timesheet.StatusSubmitted
	ts.RegularHours = split.RegularHours
	ts.OvertimeHours = split.OvertimeHours
	r.entries[id] = ts
	return nil
}

func (r *fakeTimesheetRepo) MarkApproved(_ context.Context, id, approverID string, at time.Time, split timesheet.HourSplit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.entries[id]
	if !ok || ts.Status != timesheet.StatusSubmitted {
		return timesheet.ErrAlreadyProcessed
	}
	ts.Status = timesheet.StatusApproved
	ts.ApprovedBy = &approverID
	ts.ApprovedAt = &at
	ts.RegularHours = split.RegularHours
	ts.OvertimeHours = split.OvertimeHours
	r.entries[id] = ts
	return nil
}

func (r *fakeTimesheetRepo) MarkRejected(_ context.Context, id, approverID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.entries[id]
	if !ok || ts.Status != timesheet.StatusSubmitted {
		return timesheet.ErrAlreadyProcessed
	}
	ts.Status = timesheet.StatusRejected
	ts.ApprovedBy = &approverID
	ts.RejectionReason = &reason
	r.entries[id] = ts
	return nil
}

type fakePeriodRepo struct {
	periods map[string]payroll.Period
}

func (r *fakePeriodRepo) Create(_ context.Context, p payroll.Period) (payroll.Period, error) {
	return p, nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, id string) (payroll.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *fakePeriodRepo) ClaimProcessing(context.Context, string, string, time.Time) error { return nil }

func (r *fakePeriodRepo) UpdateTotals(context.Context, string, payroll.Totals) error { return nil }

func (r *fakePeriodRepo) Complete(context.Context, string, string, time.Time) error { return nil }

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, emp := range employees {
		repo.employees[emp.ID] = emp
	}
	return repo
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context, departmentID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if !emp.IsActive() {
			continue
		}
		if departmentID != "" && emp.DepartmentID != departmentID {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListDirectReports(_ context.Context, managerID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListByDepartment(_ context.Context, departmentID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.DepartmentID == departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeSettings struct {
	snapshot settings.Snapshot
}

func (f fakeSettings) Snapshot(context.Context) settings.Snapshot { return f.snapshot }

func testSnapshot() settings.Snapshot {
	return settings.Snapshot{
		Attendance: settings.AttendanceSettings{DailyWorkingHours: 8, WeeklyWorkingHours: 40},
	}
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) Notify(userID, notificationType string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notificationType)
}
