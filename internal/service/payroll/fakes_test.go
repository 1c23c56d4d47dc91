package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
	"github.com/shopspring/decimal"
)

type fakePeriodRepo struct {
	mu      sync.Mutex
	periods map[string]payroll.Period
	nextID  int
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]payroll.Period)}
}

func (r *fakePeriodRepo) Create(_ context.Context, p payroll.Period) (payroll.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = fmt.Sprintf("period-%d", r.nextID)
	r.periods[p.ID] = p
	return p, nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, id string) (payroll.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *fakePeriodRepo) ClaimProcessing(_ context.Context, id, actorID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok || p.Status != payroll.PeriodStatusDraft {
		return payroll.ErrInvalidPeriodState
	}
	p.Status = payroll.PeriodStatusProcessing
	p.ProcessedBy = &actorID
	p.ProcessedAt = &at
	r.periods[id] = p
	return nil
}

func (r *fakePeriodRepo) UpdateTotals(_ context.Context, id string, totals payroll.Totals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	p.TotalGrossPay = totals.GrossPay
	p.TotalNetPay = totals.NetPay
	p.TotalDeductions = totals.Deductions
	p.TotalTaxes = totals.Taxes
	p.EmployeeCount = totals.EmployeeCount
	r.periods[id] = p
	return nil
}

func (r *fakePeriodRepo) Complete(_ context.Context, id, approverID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok || p.Status != payroll.PeriodStatusProcessing {
		return payroll.ErrInvalidPeriodState
	}
	p.Status = payroll.PeriodStatusCompleted
	p.ApprovedBy = &approverID
	p.ApprovedAt = &at
	r.periods[id] = p
	return nil
}

type fakeStubRepo struct {
	mu     sync.Mutex
	stubs  map[string]payroll.PayStub
	nextID int
}

func newFakeStubRepo() *fakeStubRepo {
	return &fakeStubRepo{stubs: make(map[string]payroll.PayStub)}
}

func (r *fakeStubRepo) Create(_ context.Context, stub payroll.PayStub) (payroll.PayStub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stub.ID = fmt.Sprintf("stub-%d", r.nextID)
	stub.CreatedAt = time.Now()
	r.stubs[stub.ID] = stub
	return stub, nil
}

func (r *fakeStubRepo) GetByID(_ context.Context, id string) (payroll.PayStub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stub, ok := r.stubs[id]
	if !ok {
		return payroll.PayStub{}, payroll.ErrStubNotFound
	}
	return stub, nil
}

func (r *fakeStubRepo) ListByPeriod(_ context.Context, periodID string) ([]payroll.PayStub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []payroll.PayStub
	for _, stub := range r.stubs {
		if stub.PayrollPeriodID == periodID {
			out = append(out, stub)
		}
	}
	return out, nil
}

func (r *fakeStubRepo) SumYTD(_ context.Context, employeeID string, year int) (payroll.YTD, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ytd := payroll.YTD{GrossPay: decimal.Zero, Taxes: decimal.Zero, NetPay: decimal.Zero}
	for _, stub := range r.stubs {
		if stub.EmployeeID != employeeID || stub.Status != payroll.StubStatusPaid {
			continue
		}
		if stub.CreatedAt.Year() != year {
			continue
		}
		ytd.GrossPay = ytd.GrossPay.Add(stub.GrossPay)
		ytd.Taxes = ytd.Taxes.Add(stub.Taxes.Total)
		ytd.NetPay = ytd.NetPay.Add(stub.NetPay)
	}
	return ytd, nil
}

func (r *fakeStubRepo) MarkPaidByPeriod(_ context.Context, periodID string, _ time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var paid int64
	for id, stub := range r.stubs {
		if stub.PayrollPeriodID == periodID && stub.Status == payroll.StubStatusProcessing {
			stub.Status = payroll.StubStatusPaid
			r.stubs[id] = stub
			paid++
		}
	}
	return paid, nil
}

// fakeTimesheetRepo serves canned approved hour totals per employee.
type fakeTimesheetRepo struct {
	totals map[string]timesheet.HourTotals
}

func (r *fakeTimesheetRepo) Create(_ context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	return ts, nil
}

func (r *fakeTimesheetRepo) GetByID(context.Context, string) (timesheet.Timesheet, error) {
	return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
}

func (r *fakeTimesheetRepo) Update(context.Context, timesheet.Timesheet) error { return nil }

func (r *fakeTimesheetRepo) ListByEmployee(context.Context, string, time.Time, time.Time) ([]timesheet.Timesheet, error) {
	return nil, nil
}

func (r *fakeTimesheetRepo) ExistsForDay(context.Context, string, time.Time, string) (bool, error) {
	return false, nil
}

func (r *fakeTimesheetRepo) SumWeekHours(context.Context, string, time.Time, time.Time, string) (float64, error) {
	return 0, nil
}

func (r *fakeTimesheetRepo) SumApprovedInRange(_ context.Context, employeeID string, _, _ time.Time) (timesheet.HourTotals, error) {
	return r.totals[employeeID], nil
}

func (r *fakeTimesheetRepo) MarkSubmitted(context.Context, string, timesheet.HourSplit) error {
	return nil
}

func (r *fakeTimesheetRepo) MarkApproved(context.Context, string, string, time.Time, timesheet.HourSplit) error {
	return nil
}

func (r *fakeTimesheetRepo) MarkRejected(context.Context, string, string, string, time.Time) error {
	return nil
}

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

func testTaxSettings() payroll.TaxSettings {
	return payroll.TaxSettings{
		FederalRate:            decimal.NewFromFloat(0.12),
		StateRate:              decimal.NewFromFloat(0.05),
		LocalRate:              decimal.NewFromFloat(0.01),
		SocialSecurityRate:     decimal.NewFromFloat(0.062),
		SocialSecurityWageBase: decimal.NewFromInt(168600),
		MedicareRate:           decimal.NewFromFloat(0.0145),
	}
}

func testPayrollSettings() payroll.Settings {
	return payroll.Settings{
		Overtime: payroll.OvertimeRules{
			WeeklyThreshold:    40,
			DailyThreshold:     8,
			OvertimeMultiplier: decimal.NewFromFloat(1.5),
		},
		Taxes: testTaxSettings(),
	}
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
