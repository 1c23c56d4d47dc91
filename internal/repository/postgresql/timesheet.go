package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

// Create implements timesheet.TimesheetRepository. A violation of the unique
// (employee_id, work_date) index maps to ErrDuplicateEntry.
func (r *timesheetRepositoryImpl) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	ts.ID = uuid.New().String()

	query := `
		INSERT INTO timesheets (
			id, employee_id, work_date, hours, regular_hours, overtime_hours,
			status, payroll_period_id, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ts.ID, ts.EmployeeID, ts.WorkDate, ts.Hours, ts.RegularHours, ts.OvertimeHours,
		ts.Status, ts.PayrollPeriodID, ts.Notes,
	).Scan(&ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timesheet.Timesheet{}, timesheet.ErrDuplicateEntry
		}
		return timesheet.Timesheet{}, err
	}
	return ts, nil
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.employee_id, t.work_date, t.hours, t.regular_hours, t.overtime_hours,
			   t.status, t.payroll_period_id, t.notes,
			   t.approved_by, t.approved_at, t.rejection_reason,
			   t.created_at, t.updated_at,
			   e.full_name AS employee_name
		FROM timesheets t
		JOIN employees e ON t.employee_id = e.id
		WHERE t.id = $1
	`

	var ts timesheet.Timesheet
	err := q.QueryRow(ctx, query, id).Scan(
		&ts.ID, &ts.EmployeeID, &ts.WorkDate, &ts.Hours, &ts.RegularHours, &ts.OvertimeHours,
		&ts.Status, &ts.PayrollPeriodID, &ts.Notes,
		&ts.ApprovedBy, &ts.ApprovedAt, &ts.RejectionReason,
		&ts.CreatedAt, &ts.UpdatedAt,
		&ts.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, err
	}
	return ts, nil
}

// Update implements timesheet.TimesheetRepository. Only draft rows update;
// the status guard keeps submitted entries immutable to their owner.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, ts timesheet.Timesheet) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET work_date = $2,
			hours = $3,
			regular_hours = $4,
			overtime_hours = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`

	result, err := q.Exec(ctx, query, ts.ID, ts.WorkDate, ts.Hours, ts.RegularHours, ts.OvertimeHours, ts.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timesheet.ErrDuplicateEntry
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return timesheet.ErrNotEditable
	}
	return nil
}

// ListByEmployee implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_date, hours, regular_hours, overtime_hours,
			   status, payroll_period_id, notes,
			   approved_by, approved_at, rejection_reason,
			   created_at, updated_at
		FROM timesheets
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timesheets := make([]timesheet.Timesheet, 0)
	for rows.Next() {
		var ts timesheet.Timesheet
		if err := rows.Scan(
			&ts.ID, &ts.EmployeeID, &ts.WorkDate, &ts.Hours, &ts.RegularHours, &ts.OvertimeHours,
			&ts.Status, &ts.PayrollPeriodID, &ts.Notes,
			&ts.ApprovedBy, &ts.ApprovedAt, &ts.RejectionReason,
			&ts.CreatedAt, &ts.UpdatedAt,
		); err != nil {
			return nil, err
		}
		timesheets = append(timesheets, ts)
	}
	return timesheets, rows.Err()
}

// ExistsForDay implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ExistsForDay(ctx context.Context, employeeID string, day time.Time, excludeID string) (bool, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM timesheets
			WHERE employee_id = $1 AND work_date = $2 AND id <> $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SumWeekHours implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) SumWeekHours(ctx context.Context, employeeID string, weekStart, weekEnd time.Time, excludeID string) (float64, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(hours), 0)
		FROM timesheets
		WHERE employee_id = $1
		  AND work_date BETWEEN $2 AND $3
		  AND status IN ('submitted', 'approved')
		  AND id <> $4
	`

	var total float64
	if err := q.QueryRow(ctx, query, employeeID, weekStart, weekEnd, excludeID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// SumApprovedInRange implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) SumApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) (timesheet.HourTotals, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(hours), 0),
			   COALESCE(SUM(regular_hours), 0),
			   COALESCE(SUM(overtime_hours), 0)
		FROM timesheets
		WHERE employee_id = $1
		  AND work_date BETWEEN $2 AND $3
		  AND status = 'approved'
	`

	var totals timesheet.HourTotals
	err := q.QueryRow(ctx, query, employeeID, from, to).Scan(
		&totals.Hours, &totals.RegularHours, &totals.OvertimeHours,
	)
	if err != nil {
		return timesheet.HourTotals{}, err
	}
	return totals, nil
}

// MarkSubmitted implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) MarkSubmitted(ctx context.Context, id string, split timesheet.HourSplit) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET status = 'submitted',
			regular_hours = $2,
			overtime_hours = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`

	result, err := q.Exec(ctx, query, id, split.RegularHours, split.OvertimeHours)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return timesheet.ErrAlreadyProcessed
	}
	return nil
}

// MarkApproved implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) MarkApproved(ctx context.Context, id, approverID string, at time.Time, split timesheet.HourSplit) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET status = 'approved',
			approved_by = $2,
			approved_at = $3,
			regular_hours = $4,
			overtime_hours = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'submitted'
	`

	result, err := q.Exec(ctx, query, id, approverID, at, split.RegularHours, split.OvertimeHours)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return timesheet.ErrAlreadyProcessed
	}
	return nil
}

// MarkRejected implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) MarkRejected(ctx context.Context, id, approverID, reason string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET status = 'rejected',
			approved_by = $2,
			approved_at = $3,
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'submitted'
	`

	result, err := q.Exec(ctx, query, id, approverID, at, reason)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return timesheet.ErrAlreadyProcessed
	}
	return nil
}
