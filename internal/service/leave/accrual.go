package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
)

// AccrualService runs the scheduled ledger jobs. The scheduler ticks daily;
// each job decides from the calendar whether this tick does work, so a
// restart or duplicate tick cannot double-apply anything the repository
// guards don't already reject.
type AccrualService struct {
	balances  *BalanceService
	employees employee.EmployeeRepository
}

func NewAccrualService(balances *BalanceService, employees employee.EmployeeRepository) *AccrualService {
	return &AccrualService{balances: balances, employees: employees}
}

// RunMonthlyAccrual adds each enabled policy's accrual rate to every active
// employee's balance. Only does work on the first day of the month.
func (s *AccrualService) RunMonthlyAccrual(ctx context.Context) error {
	return s.runMonthlyAccrual(ctx, time.Now())
}

func (s *AccrualService) runMonthlyAccrual(ctx context.Context, now time.Time) error {
	if now.Day() != 1 {
		return nil
	}

	snapshot := s.balances.settings.Snapshot(ctx)
	employees, err := s.employees.ListActive(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	year := now.Year()
	var failures int
	for _, emp := range employees {
		for leaveType, policy := range snapshot.Policies {
			if !policy.Enabled || policy.AccrualRate <= 0 {
				continue
			}
			if err := s.balances.Accrue(ctx, emp.ID, leaveType, year, policy.AccrualRate); err != nil {
				slog.Error("Leave accrual failed", "employee_id", emp.ID, "leave_type", leaveType, "error", err)
				failures++
			}
		}
	}

	slog.Info("Monthly leave accrual completed", "employees", len(employees), "failures", failures)
	return nil
}

// RunCarryForward applies the previous year's carry-forward for every
// active employee. Only does work in January; the per-balance guard in the
// repository makes repeated runs a no-op.
func (s *AccrualService) RunCarryForward(ctx context.Context) error {
	return s.runCarryForward(ctx, time.Now())
}

func (s *AccrualService) runCarryForward(ctx context.Context, now time.Time) error {
	if now.Month() != time.January {
		return nil
	}

	employees, err := s.employees.ListActive(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	year := now.Year()
	var failures int
	for _, emp := range employees {
		if err := s.balances.CarryForward(ctx, emp.ID, year-1, year); err != nil {
			slog.Error("Carry-forward failed", "employee_id", emp.ID, "error", err)
			failures++
		}
	}

	slog.Info("Year-end carry-forward completed", "employees", len(employees), "failures", failures)
	return nil
}
