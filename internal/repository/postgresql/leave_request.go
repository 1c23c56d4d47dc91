package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	request.ID = uuid.New().String()

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days, reason, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.Type, request.StartDate,
		request.EndDate, request.TotalDays, request.Reason, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, err
	}
	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
			   lr.total_days, lr.reason, lr.status,
			   lr.balance_before, lr.balance_after,
			   lr.approved_by, lr.approved_at, lr.rejection_reason,
			   lr.cancelled_by, lr.cancelled_at, lr.cancellation_reason,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`

	var request leave.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.EmployeeID, &request.Type, &request.StartDate, &request.EndDate,
		&request.TotalDays, &request.Reason, &request.Status,
		&request.BalanceBefore, &request.BalanceAfter,
		&request.ApprovedBy, &request.ApprovedAt, &request.RejectionReason,
		&request.CancelledBy, &request.CancelledAt, &request.CancellationReason,
		&request.CreatedAt, &request.UpdatedAt,
		&request.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}
	return request, nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date,
			   total_days, reason, status,
			   balance_before, balance_after,
			   approved_by, approved_at, rejection_reason,
			   cancelled_by, cancelled_at, cancellation_reason,
			   created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		var request leave.Request
		if err := rows.Scan(
			&request.ID, &request.EmployeeID, &request.Type, &request.StartDate, &request.EndDate,
			&request.TotalDays, &request.Reason, &request.Status,
			&request.BalanceBefore, &request.BalanceAfter,
			&request.ApprovedBy, &request.ApprovedAt, &request.RejectionReason,
			&request.CancelledBy, &request.CancelledAt, &request.CancellationReason,
			&request.CreatedAt, &request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// HasOverlap implements leave.RequestRepository. Two ranges overlap when
// each starts no later than the other ends.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND id <> $4
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkApproved implements leave.RequestRepository. The status guard makes
// the flip first-writer-wins; the loser sees zero rows affected.
func (r *leaveRequestRepositoryImpl) MarkApproved(ctx context.Context, id, approverID string, at time.Time, balanceBefore, balanceAfter float64) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'approved',
			approved_by = $2,
			approved_at = $3,
			balance_before = $4,
			balance_after = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id, approverID, at, balanceBefore, balanceAfter)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrAlreadyProcessed
	}
	return nil
}

// MarkRejected implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) MarkRejected(ctx context.Context, id, approverID, reason string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'rejected',
			approved_by = $2,
			approved_at = $3,
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id, approverID, at, reason)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrAlreadyProcessed
	}
	return nil
}

// MarkCancelled implements leave.RequestRepository. Only approved requests
// cancel; their days are reverted by the caller in the same transaction.
func (r *leaveRequestRepositoryImpl) MarkCancelled(ctx context.Context, id, actorID, reason string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'cancelled',
			cancelled_by = $2,
			cancelled_at = $3,
			cancellation_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
	`

	result, err := q.Exec(ctx, query, id, actorID, at, reason)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrAlreadyProcessed
	}
	return nil
}
