package leave

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/workflow"
)

func newTestRequestService() (*RequestService, *fakeBalanceRepo, *fakeRequestRepo, *fakeNotifier) {
	managerID := "mgr-1"
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", FullName: "Ada Smith", DepartmentID: "dep-1", ManagerID: &managerID, Role: employee.RoleEmployee, Status: employee.StatusActive},
		employee.Employee{ID: "mgr-1", FullName: "Grace Jones", DepartmentID: "dep-1", Role: employee.RoleManager, Status: employee.StatusActive},
		employee.Employee{ID: "admin-1", FullName: "Root Admin", Role: employee.RoleAdmin, Status: employee.StatusActive},
	)

	balanceRepo := newFakeBalanceRepo()
	requestRepo := newFakeRequestRepo()
	notifier := &fakeNotifier{}
	balances := NewBalanceService(balanceRepo, requestRepo, fakeSettings{snapshot: testSnapshot()})
	svc := NewRequestService(fakeTransactor{}, requestRepo, employees, balances, notifier)
	return svc, balanceRepo, requestRepo, notifier
}

func TestCreateRequest(t *testing.T) {
	t.Parallel()
	svc, _, _, notifier := newTestRequestService()

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	assert.Equal(t, leave.RequestStatusPending, created.Status)
	assert.Equal(t, 5.0, created.TotalDays)
	assert.Contains(t, notifier.calls, notification.TypeLeaveSubmitted)
}

func TestCreateRequestValidationAggregates(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "sabbatical",
		StartDate:  "06/01/2026",
		EndDate:    "2026-06-05",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestCreateRequestInsufficientBalance(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-25",
		Reason:     "long trip",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestCreateRequestRejectsOverlap(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "first",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "sick",
		StartDate:  "2026-06-04",
		EndDate:    "2026-06-06",
		Reason:     "second",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestApproveCommitsBalanceOnce(t *testing.T) {
	t.Parallel()
	svc, balanceRepo, _, notifier := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID, "mgr-1")
	require.NoError(t, err)

	assert.Equal(t, leave.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.BalanceBefore)
	require.NotNil(t, approved.BalanceAfter)
	assert.Equal(t, 20.0, *approved.BalanceBefore)
	assert.Equal(t, 15.0, *approved.BalanceAfter)

	balance := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.Equal(t, 5.0, balance.Used)
	assert.Equal(t, 15.0, balance.Remaining)
	assert.Contains(t, notifier.calls, notification.TypeLeaveApproved)
}

func TestApproveTwiceFails(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "mgr-1")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "mgr-1")
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestConcurrentApprovalsCommitExactlyOnce(t *testing.T) {
	t.Parallel()
	svc, balanceRepo, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	approvers := []string{"mgr-1", "admin-1"}
	results := make([]error, len(approvers))

	var wg sync.WaitGroup
	for i, approver := range approvers {
		i, approver := i, approver
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Approve(ctx, created.ID, approver)
		}()
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, leave.ErrAlreadyProcessed):
			conflicted++
		default:
			t.Fatalf("unexpected approval error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	balance := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.Equal(t, 5.0, balance.Used, "the ledger must move exactly once")
	assert.Equal(t, 15.0, balance.Remaining)
}

func TestApproveRejectsSelfApproval(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-02",
		Reason:     "errand",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "emp-1")
	assert.ErrorIs(t, err, employee.ErrUnauthorized)
}

func TestRejectRequiresReason(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-02",
		Reason:     "errand",
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, created.ID, "mgr-1", "  ")
	assert.ErrorIs(t, err, workflow.ErrReasonRequired)

	rejected, err := svc.Reject(ctx, created.ID, "mgr-1", "coverage gap")
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusRejected, rejected.Status)
}

func TestCancelRevertsLedger(t *testing.T) {
	t.Parallel()
	svc, balanceRepo, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-05",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "mgr-1")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, created.ID, "mgr-1", "plans changed")
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusCancelled, cancelled.Status)

	balance := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.Equal(t, 0.0, balance.Used)
	assert.Equal(t, 20.0, balance.Remaining)
}

func TestCancelPendingRequestFails(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, leave.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-02",
		Reason:     "errand",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, created.ID, "mgr-1", "oops")
	assert.ErrorIs(t, err, leave.ErrNotApproved)
}
