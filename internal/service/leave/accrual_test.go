package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
)

func newTestAccrualService() (*AccrualService, *fakeBalanceRepo) {
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", Status: employee.StatusActive},
		employee.Employee{ID: "emp-gone", Status: employee.StatusTerminated},
	)
	balanceRepo := newFakeBalanceRepo()
	balances := NewBalanceService(balanceRepo, newFakeRequestRepo(), fakeSettings{snapshot: testSnapshot()})
	return NewAccrualService(balances, employees), balanceRepo
}

func TestMonthlyAccrualOnlyRunsOnFirstOfMonth(t *testing.T) {
	t.Parallel()
	svc, balanceRepo := newTestAccrualService()

	midMonth := time.Date(2026, time.June, 15, 3, 0, 0, 0, time.UTC)
	require.NoError(t, svc.runMonthlyAccrual(context.Background(), midMonth))
	assert.Empty(t, balanceRepo.balances)
}

func TestMonthlyAccrualAppliesPolicyRates(t *testing.T) {
	t.Parallel()
	svc, balanceRepo := newTestAccrualService()

	firstOfMonth := time.Date(2026, time.June, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, svc.runMonthlyAccrual(context.Background(), firstOfMonth))

	annual := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.InDelta(t, 1.67, annual.Accrued, 1e-9)
	assert.InDelta(t, 21.67, annual.Total, 1e-9)

	sick := balanceRepo.balances[balanceKey{"emp-1", leave.TypeSick, 2026}]
	assert.InDelta(t, 0.83, sick.Accrued, 1e-9)

	// Unpaid has no accrual rate and terminated employees are skipped.
	_, ok := balanceRepo.balances[balanceKey{"emp-1", leave.TypeUnpaid, 2026}]
	assert.False(t, ok)
	_, ok = balanceRepo.balances[balanceKey{"emp-gone", leave.TypeAnnual, 2026}]
	assert.False(t, ok)
}

func TestCarryForwardJobOnlyRunsInJanuary(t *testing.T) {
	t.Parallel()
	svc, balanceRepo := newTestAccrualService()
	ctx := context.Background()

	_, err := balanceRepo.GetOrCreate(ctx, leave.Balance{EmployeeID: "emp-1", Year: 2025, Type: leave.TypeAnnual, Total: 20})
	require.NoError(t, err)

	july := time.Date(2026, time.July, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, svc.runCarryForward(ctx, july))
	_, ok := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.False(t, ok)

	january := time.Date(2026, time.January, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, svc.runCarryForward(ctx, january))

	annual := balanceRepo.balances[balanceKey{"emp-1", leave.TypeAnnual, 2026}]
	assert.Equal(t, 5.0, annual.CarryForward)
	assert.Equal(t, 25.0, annual.Total)
}
