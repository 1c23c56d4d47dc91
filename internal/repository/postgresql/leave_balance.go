package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const balanceColumns = `
	id, employee_id, year, leave_type, total, used, remaining,
	accrued, carry_forward, created_at, updated_at
`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.Year, &b.Type, &b.Total, &b.Used, &b.Remaining,
		&b.Accrued, &b.CarryForward, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetOrCreate implements leave.BalanceRepository. The insert relies on the
// unique (employee_id, leave_type, year) constraint; on conflict the existing
// row wins, so concurrent callers converge on one row.
func (r *leaveBalanceRepositoryImpl) GetOrCreate(ctx context.Context, seed leave.Balance) (leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO leave_balances (id, employee_id, year, leave_type, total, used, remaining)
		VALUES ($1, $2, $3, $4, $5, 0, $5)
		ON CONFLICT (employee_id, leave_type, year) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, uuid.New().String(), seed.EmployeeID, seed.Year, seed.Type, seed.Total); err != nil {
		return leave.Balance{}, err
	}

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`
	return scanBalance(q.QueryRow(ctx, query, seed.EmployeeID, seed.Type, seed.Year))
}

// GetByEmployeeTypeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`

	balance, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveType, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}
	return balance, nil
}

// ListByEmployeeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

// CommitUsage implements leave.BalanceRepository. The WHERE clause guards
// the write: it only matches when enough remaining exists, so two concurrent
// commits cannot overdraw the balance.
func (r *leaveBalanceRepositoryImpl) CommitUsage(ctx context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = used + $4,
			remaining = GREATEST(total - (used + $4), 0),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
		  AND remaining >= $4
	`

	result, err := q.Exec(ctx, query, employeeID, leaveType, year, days)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}
	return nil
}

// RevertUsage implements leave.BalanceRepository. Used floors at zero so a
// duplicate revert cannot inflate the entitlement.
func (r *leaveBalanceRepositoryImpl) RevertUsage(ctx context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = GREATEST(used - $4, 0),
			remaining = GREATEST(total - GREATEST(used - $4, 0), 0),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`

	result, err := q.Exec(ctx, query, employeeID, leaveType, year, days)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// Accrue implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Accrue(ctx context.Context, employeeID string, leaveType leave.Type, year int, amount float64) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET accrued = accrued + $4,
			total = total + $4,
			remaining = GREATEST(total + $4 - used, 0),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`

	result, err := q.Exec(ctx, query, employeeID, leaveType, year, amount)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// ApplyCarryForward implements leave.BalanceRepository. The carry_forward = 0
// guard makes the January job idempotent: a rerun matches no row and changes
// nothing.
func (r *leaveBalanceRepositoryImpl) ApplyCarryForward(ctx context.Context, employeeID string, leaveType leave.Type, year int, days float64) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET carry_forward = $4,
			total = total + $4,
			remaining = GREATEST(total + $4 - used, 0),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
		  AND carry_forward = 0
	`

	_, err := q.Exec(ctx, query, employeeID, leaveType, year, days)
	return err
}
