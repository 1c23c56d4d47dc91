package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type payStubRepositoryImpl struct {
	db *database.DB
}

func NewPayStubRepository(db *database.DB) payroll.StubRepository {
	return &payStubRepositoryImpl{db: db}
}

// Create implements payroll.StubRepository. The itemized tax and deduction
// breakdowns persist as jsonb next to the scalar pay columns.
func (r *payStubRepositoryImpl) Create(ctx context.Context, stub payroll.PayStub) (payroll.PayStub, error) {
	q := database.GetQuerier(ctx, r.db)

	stub.ID = uuid.New().String()

	taxes, err := json.Marshal(stub.Taxes)
	if err != nil {
		return payroll.PayStub{}, err
	}
	deductions, err := json.Marshal(stub.Deductions)
	if err != nil {
		return payroll.PayStub{}, err
	}

	query := `
		INSERT INTO pay_stubs (
			id, employee_id, payroll_period_id,
			gross_pay, regular_hours, regular_rate, overtime_hours, overtime_rate, overtime_pay,
			taxes, deductions, net_pay,
			ytd_gross_pay, ytd_net_pay, ytd_taxes, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		stub.ID, stub.EmployeeID, stub.PayrollPeriodID,
		stub.GrossPay, stub.RegularHours, stub.RegularRate, stub.OvertimeHours, stub.OvertimeRate, stub.OvertimePay,
		taxes, deductions, stub.NetPay,
		stub.YTDGrossPay, stub.YTDNetPay, stub.YTDTaxes, stub.Status,
	).Scan(&stub.CreatedAt, &stub.UpdatedAt)
	if err != nil {
		return payroll.PayStub{}, err
	}
	return stub, nil
}

const stubColumns = `
	s.id, s.employee_id, s.payroll_period_id,
	s.gross_pay, s.regular_hours, s.regular_rate, s.overtime_hours, s.overtime_rate, s.overtime_pay,
	s.taxes, s.deductions, s.net_pay,
	s.ytd_gross_pay, s.ytd_net_pay, s.ytd_taxes, s.status,
	s.created_at, s.updated_at,
	e.full_name AS employee_name
`

func scanStub(row pgx.Row) (payroll.PayStub, error) {
	var stub payroll.PayStub
	var taxes, deductions []byte

	err := row.Scan(
		&stub.ID, &stub.EmployeeID, &stub.PayrollPeriodID,
		&stub.GrossPay, &stub.RegularHours, &stub.RegularRate, &stub.OvertimeHours, &stub.OvertimeRate, &stub.OvertimePay,
		&taxes, &deductions, &stub.NetPay,
		&stub.YTDGrossPay, &stub.YTDNetPay, &stub.YTDTaxes, &stub.Status,
		&stub.CreatedAt, &stub.UpdatedAt,
		&stub.EmployeeName,
	)
	if err != nil {
		return payroll.PayStub{}, err
	}

	if err := json.Unmarshal(taxes, &stub.Taxes); err != nil {
		return payroll.PayStub{}, err
	}
	if err := json.Unmarshal(deductions, &stub.Deductions); err != nil {
		return payroll.PayStub{}, err
	}
	return stub, nil
}

// GetByID implements payroll.StubRepository.
func (r *payStubRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayStub, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + stubColumns + `
		FROM pay_stubs s
		JOIN employees e ON s.employee_id = e.id
		WHERE s.id = $1
	`

	stub, err := scanStub(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayStub{}, payroll.ErrStubNotFound
		}
		return payroll.PayStub{}, err
	}
	return stub, nil
}

// ListByPeriod implements payroll.StubRepository.
func (r *payStubRepositoryImpl) ListByPeriod(ctx context.Context, periodID string) ([]payroll.PayStub, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + stubColumns + `
		FROM pay_stubs s
		JOIN employees e ON s.employee_id = e.id
		WHERE s.payroll_period_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stubs := make([]payroll.PayStub, 0)
	for rows.Next() {
		stub, err := scanStub(rows)
		if err != nil {
			return nil, err
		}
		stubs = append(stubs, stub)
	}
	return stubs, rows.Err()
}

// SumYTD implements payroll.StubRepository. Only paid stubs count; the year
// comes from the period's pay date, not the stub's creation time.
func (r *payStubRepositoryImpl) SumYTD(ctx context.Context, employeeID string, year int) (payroll.YTD, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(s.gross_pay), 0),
			   COALESCE(SUM((s.taxes->>'total')::numeric), 0),
			   COALESCE(SUM(s.net_pay), 0)
		FROM pay_stubs s
		JOIN payroll_periods p ON s.payroll_period_id = p.id
		WHERE s.employee_id = $1
		  AND s.status = 'paid'
		  AND EXTRACT(YEAR FROM p.pay_date) = $2
	`

	var ytd payroll.YTD
	if err := q.QueryRow(ctx, query, employeeID, year).Scan(&ytd.GrossPay, &ytd.Taxes, &ytd.NetPay); err != nil {
		return payroll.YTD{}, err
	}
	return ytd, nil
}

// MarkPaidByPeriod implements payroll.StubRepository.
func (r *payStubRepositoryImpl) MarkPaidByPeriod(ctx context.Context, periodID string, at time.Time) (int64, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_stubs
		SET status = 'paid',
			updated_at = $2
		WHERE payroll_period_id = $1 AND status = 'processing'
	`

	result, err := q.Exec(ctx, query, periodID, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
