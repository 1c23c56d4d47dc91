package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

// The fakes mirror the guarded-update contracts of the real repositories so
// the concurrency tests exercise the same compare-and-set behavior.

type balanceKey struct {
	employeeID string
	leaveType  leave.Type
	year       int
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[balanceKey]leave.Balance
	nextID   int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[balanceKey]leave.Balance)}
}

func (r *fakeBalanceRepo) GetOrCreate(_ context.Context, seed leave.Balance) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{seed.EmployeeID, seed.Type, seed.Year}
	if existing, ok := r.balances[key]; ok {
		return existing, nil
	}
	r.nextID++
	seed.ID = fmt.Sprintf("bal-%d", r.nextID)
	seed.Remaining = seed.Total - seed.Used
	if seed.Remaining < 0 {
		seed.Remaining = 0
	}
	r.balances[key] = seed
	return seed, nil
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[balanceKey{employeeID, leaveType, year}]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return balance, nil
}

func (r *fakeBalanceRepo) ListByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.Balance
	for key, balance := range r.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, balance)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) CommitUsage(_ context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{employeeID, leaveType, year}
	balance, ok := r.balances[key]
	if !ok || balance.Remaining < days {
		return leave.ErrInsufficientBalance
	}
	balance.Used += days
	balance.Remaining = balance.Total - balance.Used
	if balance.Remaining < 0 {
		balance.Remaining = 0
	}
	r.balances[key] = balance
	return nil
}

func (r *fakeBalanceRepo) RevertUsage(_ context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{employeeID, leaveType, year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	balance.Used -= days
	if balance.Used < 0 {
		balance.Used = 0
	}
	balance.Remaining = balance.Total - balance.Used
	r.balances[key] = balance
	return nil
}

func (r *fakeBalanceRepo) Accrue(_ context.Context, employeeID string, leaveType leave.Type, year int, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{employeeID, leaveType, year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	balance.Accrued += amount
	balance.Total += amount
	balance.Remaining = balance.Total - balance.Used
	r.balances[key] = balance
	return nil
}

func (r *fakeBalanceRepo) ApplyCarryForward(_ context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{employeeID, leaveType, year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if balance.CarryForward != 0 {
		return nil
	}
	balance.CarryForward = days
	balance.Total += days
	balance.Remaining = balance.Total - balance.Used
	r.balances[key] = balance
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]leave.Request
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	request.ID = fmt.Sprintf("req-%d", r.nextID)
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return request, nil
}

func (r *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.Request
	for _, request := range r.requests {
		if request.EmployeeID == employeeID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) HasOverlap(_ context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.EmployeeID != employeeID || request.ID == excludeID {
			continue
		}
		if request.Status != leave.RequestStatusPending && request.Status != leave.RequestStatusApproved {
			continue
		}
		if !start.After(request.EndDate) && !end.Before(request.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) MarkApproved(_ context.Context, id, approverID string, at time.Time, balanceBefore, balanceAfter float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.Status != leave.RequestStatusPending {
		return leave.ErrAlreadyProcessed
	}
	request.Status = leave.RequestStatusApproved
	request.ApprovedBy = &approverID
	request.ApprovedAt = &at
	request.BalanceBefore = &balanceBefore
	request.BalanceAfter = &balanceAfter
	r.requests[id] = request
	return nil
}

func (r *fakeRequestRepo) MarkRejected(_ context.Context, id, approverID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.Status != leave.RequestStatusPending {
		return leave.ErrAlreadyProcessed
	}
	request.Status = leave.RequestStatusRejected
	request.ApprovedBy = &approverID
	request.ApprovedAt = &at
	request.RejectionReason = &reason
	r.requests[id] = request
	return nil
}

func (r *fakeRequestRepo) MarkCancelled(_ context.Context, id, actorID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.Status != leave.RequestStatusApproved {
		return leave.ErrAlreadyProcessed
	}
	request.Status = leave.RequestStatusCancelled
	request.CancelledBy = &actorID
	request.CancelledAt = &at
	request.CancellationReason = &reason
	r.requests[id] = request
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

// fakeSettings serves a fixed snapshot without timeouts or fallbacks.
type fakeSettings struct {
	snapshot settings.Snapshot
}

func (f fakeSettings) Snapshot(context.Context) settings.Snapshot { return f.snapshot }

func testSnapshot() settings.Snapshot {
	return settings.Snapshot{
		Policies: map[leave.Type]leave.Policy{
			leave.TypeAnnual: {Type: leave.TypeAnnual, MaxDays: 20, AccrualRate: 1.67, CarryForwardLimit: 5, CarryForwardEnabled: true, Enabled: true},
			leave.TypeSick:   {Type: leave.TypeSick, MaxDays: 10, AccrualRate: 0.83, CarryForwardEnabled: true, Enabled: true},
			leave.TypeUnpaid: {Type: leave.TypeUnpaid, Enabled: true},
		},
	}
}

// fakeTransactor runs the function directly; the fakes' compare-and-set
// guards stand in for row locking.
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
