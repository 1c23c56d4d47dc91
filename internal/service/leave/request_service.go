package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/workflow"
)

type RequestService struct {
	db        database.Transactor
	requests  leave.RequestRepository
	employees employee.EmployeeRepository
	balances  *BalanceService
	notifier  notification.Notifier
}

func NewRequestService(db database.Transactor, requests leave.RequestRepository, employees employee.EmployeeRepository, balances *BalanceService, notifier notification.Notifier) *RequestService {
	return &RequestService{
		db:        db,
		requests:  requests,
		employees: employees,
		balances:  balances,
		notifier:  notifier,
	}
}

// Create validates dates, availability and overlap, then stores a pending
// request. The balance is only checked here; it is committed at approval,
// never at submission.
func (s *RequestService) Create(ctx context.Context, req leave.CreateRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to get employee: %w", err)
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	start = validator.StartOfDay(start)
	end = validator.StartOfDay(end)

	leaveType := leave.Type(req.Type)
	totalDays := end.Sub(start).Hours()/24 + 1

	availability, err := s.balances.CheckAvailability(ctx, emp.ID, leaveType, totalDays, start.Year())
	if err != nil {
		return leave.Request{}, err
	}
	if !availability.Available {
		return leave.Request{}, leave.ErrInsufficientBalance
	}

	hasOverlap, err := s.requests.HasOverlap(ctx, emp.ID, start, end, "")
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if hasOverlap {
		return leave.Request{}, leave.ErrOverlappingLeave
	}

	created, err := s.requests.Create(ctx, leave.Request{
		EmployeeID: emp.ID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     leave.RequestStatusPending,
	})
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if emp.ManagerID != nil {
		s.notifier.Notify(*emp.ManagerID, notification.TypeLeaveSubmitted, map[string]any{
			"request_id":  created.ID,
			"employee_id": emp.ID,
			"leave_type":  string(leaveType),
			"total_days":  totalDays,
		})
	}

	return created, nil
}

func (s *RequestService) List(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return s.requests.ListByEmployee(ctx, employeeID)
}

// Approve commits the request: a guarded pending->approved flip and the
// ledger mutation run in one transaction. Under two concurrent approvals the
// second status flip matches no row, the transaction rolls back, and the
// balance is committed exactly once.
func (s *RequestService) Approve(ctx context.Context, requestID, actorID string) (leave.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.Request{}, leave.ErrAlreadyProcessed
	}

	if err := s.authorizeApprover(ctx, actorID, request.EmployeeID); err != nil {
		return leave.Request{}, err
	}

	year := request.StartDate.Year()
	availability, err := s.balances.CheckAvailability(ctx, request.EmployeeID, request.Type, request.TotalDays, year)
	if err != nil {
		return leave.Request{}, err
	}
	if !availability.Available {
		return leave.Request{}, leave.ErrInsufficientBalance
	}

	balanceBefore := availability.Remaining
	balanceAfter := balanceBefore
	if request.Type != leave.TypeUnpaid {
		balanceAfter = balanceBefore - request.TotalDays
	}

	approvedAt := time.Now()
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requests.MarkApproved(txCtx, requestID, actorID, approvedAt, balanceBefore, balanceAfter); err != nil {
			return err
		}
		return s.balances.CommitUsage(txCtx, request.EmployeeID, request.Type, year, request.TotalDays)
	})
	if err != nil {
		return leave.Request{}, err
	}

	request.Status = leave.RequestStatusApproved
	request.ApprovedBy = &actorID
	request.ApprovedAt = &approvedAt
	request.BalanceBefore = &balanceBefore
	request.BalanceAfter = &balanceAfter

	s.notifier.Notify(request.EmployeeID, notification.TypeLeaveApproved, map[string]any{
		"request_id": request.ID,
		"leave_type": string(request.Type),
	})

	return request, nil
}

// Reject flips a pending request to rejected. The reason is mandatory.
func (s *RequestService) Reject(ctx context.Context, requestID, actorID, reason string) (leave.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}

	if err := workflow.Transition(workflow.StatePending, workflow.StateRejected, reason); err != nil {
		return leave.Request{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.Request{}, leave.ErrAlreadyProcessed
	}

	if err := s.authorizeApprover(ctx, actorID, request.EmployeeID); err != nil {
		return leave.Request{}, err
	}

	rejectedAt := time.Now()
	if err := s.requests.MarkRejected(ctx, requestID, actorID, reason, rejectedAt); err != nil {
		return leave.Request{}, err
	}

	request.Status = leave.RequestStatusRejected
	request.RejectionReason = &reason
	request.ApprovedBy = &actorID
	request.ApprovedAt = &rejectedAt

	s.notifier.Notify(request.EmployeeID, notification.TypeLeaveRejected, map[string]any{
		"request_id": request.ID,
		"reason":     reason,
	})

	return request, nil
}

// Cancel reverses an approved request and returns its days to the ledger.
// The revert floors at zero, so a duplicate cancel cannot drive used
// negative even if the status guard were ever bypassed.
func (s *RequestService) Cancel(ctx context.Context, requestID, actorID, reason string) (leave.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}
	if request.Status != leave.RequestStatusApproved {
		return leave.Request{}, leave.ErrNotApproved
	}

	if err := s.authorizeApprover(ctx, actorID, request.EmployeeID); err != nil {
		return leave.Request{}, err
	}

	cancelledAt := time.Now()
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requests.MarkCancelled(txCtx, requestID, actorID, reason, cancelledAt); err != nil {
			return err
		}
		return s.balances.RevertUsage(txCtx, request.EmployeeID, request.Type, request.StartDate.Year(), request.TotalDays)
	})
	if err != nil {
		return leave.Request{}, err
	}

	request.Status = leave.RequestStatusCancelled
	request.CancelledBy = &actorID
	request.CancelledAt = &cancelledAt
	request.CancellationReason = &reason

	return request, nil
}

func (s *RequestService) authorizeApprover(ctx context.Context, actorID, ownerID string) error {
	actor, err := s.employees.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get approver: %w", err)
	}

	scope, err := employee.ResolveAccessScope(ctx, s.employees, actor)
	if err != nil {
		return err
	}
	if !scope.CanApprove(ownerID) {
		return employee.ErrUnauthorized
	}
	return nil
}
