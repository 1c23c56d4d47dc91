package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type payrollPeriodRepositoryImpl struct {
	db *database.DB
}

func NewPayrollPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &payrollPeriodRepositoryImpl{db: db}
}

// Create implements payroll.PeriodRepository.
func (r *payrollPeriodRepositoryImpl) Create(ctx context.Context, period payroll.Period) (payroll.Period, error) {
	q := database.GetQuerier(ctx, r.db)

	period.ID = uuid.New().String()

	query := `
		INSERT INTO payroll_periods (id, period_start, period_end, pay_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		period.ID, period.PeriodStart, period.PeriodEnd, period.PayDate, period.Status,
	).Scan(&period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		return payroll.Period{}, err
	}
	return period, nil
}

// GetByID implements payroll.PeriodRepository.
func (r *payrollPeriodRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_start, period_end, pay_date, status,
			   total_gross_pay, total_net_pay, total_deductions, total_taxes, employee_count,
			   processed_by, processed_at, approved_by, approved_at,
			   created_at, updated_at
		FROM payroll_periods
		WHERE id = $1
	`

	var period payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(
		&period.ID, &period.PeriodStart, &period.PeriodEnd, &period.PayDate, &period.Status,
		&period.TotalGrossPay, &period.TotalNetPay, &period.TotalDeductions, &period.TotalTaxes, &period.EmployeeCount,
		&period.ProcessedBy, &period.ProcessedAt, &period.ApprovedBy, &period.ApprovedAt,
		&period.CreatedAt, &period.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, err
	}
	return period, nil
}

// ClaimProcessing implements payroll.PeriodRepository. The draft guard makes
// the claim first-writer-wins; any later claim, including a re-run against a
// completed period, matches no row.
func (r *payrollPeriodRepositoryImpl) ClaimProcessing(ctx context.Context, id, actorID string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = 'processing',
			processed_by = $2,
			processed_at = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`

	result, err := q.Exec(ctx, query, id, actorID, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrInvalidPeriodState
	}
	return nil
}

// UpdateTotals implements payroll.PeriodRepository.
func (r *payrollPeriodRepositoryImpl) UpdateTotals(ctx context.Context, id string, totals payroll.Totals) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET total_gross_pay = $2,
			total_net_pay = $3,
			total_deductions = $4,
			total_taxes = $5,
			employee_count = $6,
			updated_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`

	result, err := q.Exec(ctx, query, id, totals.GrossPay, totals.NetPay, totals.Deductions, totals.Taxes, totals.EmployeeCount)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrInvalidPeriodState
	}
	return nil
}

// Complete implements payroll.PeriodRepository.
func (r *payrollPeriodRepositoryImpl) Complete(ctx context.Context, id, approverID string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = 'completed',
			approved_by = $2,
			approved_at = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`

	result, err := q.Exec(ctx, query, id, approverID, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return payroll.ErrInvalidPeriodState
	}
	return nil
}
