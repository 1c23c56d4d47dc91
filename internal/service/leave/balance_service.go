package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

// BalanceService is the leave balance ledger: per-employee, per-year
// entitlement tracking seeded from the active leave policies.
type BalanceService struct {
	balances leave.BalanceRepository
	requests leave.RequestRepository
	settings settings.Provider
}

func NewBalanceService(balances leave.BalanceRepository, requests leave.RequestRepository, settingsProvider settings.Provider) *BalanceService {
	return &BalanceService{
		balances: balances,
		requests: requests,
		settings: settingsProvider,
	}
}

// GetOrCreateBalance returns the balance row for one leave type, creating it
// lazily from the policy when missing. Creation is idempotent: the
// repository's insert-on-conflict means concurrent callers share one row.
func (s *BalanceService) GetOrCreateBalance(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	snapshot := s.settings.Snapshot(ctx)
	policy, ok := snapshot.Policy(leaveType)
	if !ok {
		return leave.Balance{}, leave.ErrPolicyNotConfigured
	}

	seed := leave.Balance{
		EmployeeID: employeeID,
		Year:       year,
		Type:       leaveType,
		Total:      policy.MaxDays,
		Remaining:  policy.MaxDays,
	}

	balance, err := s.balances.GetOrCreate(ctx, seed)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get or create leave balance: %w", err)
	}
	return balance, nil
}

// GetBalances returns every balance of the year, creating missing ones from
// the enabled policies.
func (s *BalanceService) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	snapshot := s.settings.Snapshot(ctx)

	balances := make([]leave.Balance, 0, len(leave.Types))
	for _, leaveType := range leave.Types {
		policy, ok := snapshot.Policy(leaveType)
		if !ok {
			continue
		}
		seed := leave.Balance{
			EmployeeID: employeeID,
			Year:       year,
			Type:       leaveType,
			Total:      policy.MaxDays,
			Remaining:  policy.MaxDays,
		}
		balance, err := s.balances.GetOrCreate(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to get or create %s balance: %w", leaveType, err)
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// CheckAvailability reports whether the employee can take the requested
// days. Unpaid leave is always available and never consumes balance. The
// check is read-only, so calling it twice without an intervening commit
// yields identical results.
func (s *BalanceService) CheckAvailability(ctx context.Context, employeeID string, leaveType leave.Type, days float64, year int) (leave.Availability, error) {
	if leaveType == leave.TypeUnpaid {
		return leave.Availability{Available: true}, nil
	}

	balance, err := s.GetOrCreateBalance(ctx, employeeID, leaveType, year)
	if err != nil {
		return leave.Availability{}, err
	}

	return leave.Availability{
		Available: days <= balance.Remaining,
		Remaining: balance.Remaining,
		Total:     balance.Total,
		Used:      balance.Used,
	}, nil
}

// CommitUsage increments used and recomputes remaining. No-op for unpaid
// leave.
func (s *BalanceService) CommitUsage(ctx context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	if leaveType == leave.TypeUnpaid {
		return nil
	}
	if _, err := s.GetOrCreateBalance(ctx, employeeID, leaveType, year); err != nil {
		return err
	}
	return s.balances.CommitUsage(ctx, employeeID, leaveType, year, days)
}

// RevertUsage decrements used with a floor at zero, so a double revert
// cannot push the ledger negative.
func (s *BalanceService) RevertUsage(ctx context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	if leaveType == leave.TypeUnpaid {
		return nil
	}
	return s.balances.RevertUsage(ctx, employeeID, leaveType, year, days)
}

// Accrue adds the amount to both accrued and total.
func (s *BalanceService) Accrue(ctx context.Context, employeeID string, leaveType leave.Type, year int, amount float64) error {
	if _, err := s.GetOrCreateBalance(ctx, employeeID, leaveType, year); err != nil {
		return err
	}
	return s.balances.Accrue(ctx, employeeID, leaveType, year, amount)
}

// CarryForward moves unused entitlement from one year to the next. Annual
// leave carries min(remaining, policy limit) when the policy allows it;
// sick leave carries the full remainder when its policy allows. The
// repository applies it only once per year, so the job can re-run safely.
func (s *BalanceService) CarryForward(ctx context.Context, employeeID string, fromYear, toYear int) error {
	snapshot := s.settings.Snapshot(ctx)

	for _, leaveType := range []leave.Type{leave.TypeAnnual, leave.TypeSick} {
		policy, ok := snapshot.Policy(leaveType)
		if !ok || !policy.CarryForwardEnabled {
			continue
		}

		previous, err := s.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveType, fromYear)
		if err != nil {
			if errors.Is(err, leave.ErrBalanceNotFound) {
				continue
			}
			return fmt.Errorf("failed to load %d %s balance: %w", fromYear, leaveType, err)
		}

		carry := previous.Remaining
		if leaveType == leave.TypeAnnual && carry > policy.CarryForwardLimit {
			carry = policy.CarryForwardLimit
		}
		if carry <= 0 {
			continue
		}

		if _, err := s.GetOrCreateBalance(ctx, employeeID, leaveType, toYear); err != nil {
			return err
		}
		if err := s.balances.ApplyCarryForward(ctx, employeeID, leaveType, toYear, carry); err != nil {
			return fmt.Errorf("failed to apply %s carry-forward: %w", leaveType, err)
		}
	}

	return nil
}

// CheckOverlap runs the four-way interval overlap test against pending and
// approved requests.
func (s *BalanceService) CheckOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	return s.requests.HasOverlap(ctx, employeeID, start, end, excludeID)
}
