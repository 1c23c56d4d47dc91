package leave

import (
	"context"
	"time"
)

// BalanceRepository persists per-(employee, type, year) balances.
//
// GetOrCreate must be atomic: concurrent calls for the same key return the
// same row (insert-on-conflict semantics, never a duplicate). The usage
// mutators recompute remaining = max(0, total-used) in the same statement so
// the invariant holds under concurrent writers.
type BalanceRepository interface {
	GetOrCreate(ctx context.Context, seed Balance) (Balance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType Type, year int) (Balance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)

	// CommitUsage adds days to used; fails with ErrInsufficientBalance when
	// the guarded update matches no row because remaining would go negative.
	CommitUsage(ctx context.Context, employeeID string, leaveType Type, year int, days float64) error

	// RevertUsage subtracts days from used with a floor at zero.
	RevertUsage(ctx context.Context, employeeID string, leaveType Type, year int, days float64) error

	// Accrue adds to both accrued and total.
	Accrue(ctx context.Context, employeeID string, leaveType Type, year int, amount float64) error

	// ApplyCarryForward sets carry_forward and raises total, but only when no
	// carry-forward has been applied yet for that year (idempotent).
	ApplyCarryForward(ctx context.Context, employeeID string, leaveType Type, year int, days float64) error
}

type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)

	// HasOverlap runs the four-way interval test against pending and approved
	// requests, optionally excluding one request id.
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)

	// MarkApproved flips status pending->approved in a single guarded update;
	// zero rows affected means another approver won and yields
	// ErrAlreadyProcessed.
	MarkApproved(ctx context.Context, id, approverID string, at time.Time, balanceBefore, balanceAfter float64) error
	MarkRejected(ctx context.Context, id, approverID, reason string, at time.Time) error
	MarkCancelled(ctx context.Context, id, actorID, reason string, at time.Time) error
}
