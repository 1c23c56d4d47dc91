package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/workflow"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

type Service struct {
	timesheets timesheet.TimesheetRepository
	employees  employee.EmployeeRepository
	periods    payroll.PeriodRepository
	settings   settings.Provider
	notifier   notification.Notifier
}

func NewService(timesheets timesheet.TimesheetRepository, employees employee.EmployeeRepository, periods payroll.PeriodRepository, settingsProvider settings.Provider, notifier notification.Notifier) *Service {
	return &Service{
		timesheets: timesheets,
		employees:  employees,
		periods:    periods,
		settings:   settingsProvider,
		notifier:   notifier,
	}
}

// ValidateEntry collects every violation instead of failing on the first:
// hour range, future date, duplicate day, and period date fit.
func (s *Service) ValidateEntry(ctx context.Context, req timesheet.CreateTimesheetRequest, excludeID string) (time.Time, error) {
	var errs validator.ValidationErrors

	workDate, dateOK := validator.IsValidDate(req.WorkDate)
	if !dateOK {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "must be YYYY-MM-DD"})
	} else {
		workDate = validator.StartOfDay(workDate)
		if workDate.After(validator.StartOfDay(time.Now())) {
			errs = append(errs, validator.ValidationError{Field: "work_date", Message: "must not be in the future"})
		}

		duplicate, err := s.timesheets.ExistsForDay(ctx, req.EmployeeID, workDate, excludeID)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to check for duplicate timesheet: %w", err)
		}
		if duplicate {
			errs = append(errs, validator.ValidationError{Field: "work_date", Message: "a timesheet already exists for this day"})
		}
	}

	if !validator.IsValidHours(req.Hours) {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be between 0 and 24"})
	}

	if req.PayrollPeriodID != nil {
		period, err := s.periods.GetByID(ctx, *req.PayrollPeriodID)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "payroll_period_id", Message: "unknown payroll period"})
		} else if dateOK && (workDate.Before(period.PeriodStart) || workDate.After(period.PeriodEnd)) {
			errs = append(errs, validator.ValidationError{Field: "work_date", Message: "must fall within the payroll period"})
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return workDate, nil
}

// Create stores a draft entry with its split precomputed so the
// regular+overtime invariant holds from the first write.
func (s *Service) Create(ctx context.Context, req timesheet.CreateTimesheetRequest) (timesheet.Timesheet, error) {
	workDate, err := s.ValidateEntry(ctx, req, "")
	if err != nil {
		return timesheet.Timesheet{}, err
	}

	split, err := s.SplitHours(ctx, req.EmployeeID, req.Hours, workDate, "")
	if err != nil {
		return timesheet.Timesheet{}, err
	}

	created, err := s.timesheets.Create(ctx, timesheet.Timesheet{
		EmployeeID:      req.EmployeeID,
		WorkDate:        workDate,
		Hours:           req.Hours,
		RegularHours:    split.RegularHours,
		OvertimeHours:   split.OvertimeHours,
		Status:          timesheet.StatusDraft,
		PayrollPeriodID: req.PayrollPeriodID,
		Notes:           req.Notes,
	})
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	return created, nil
}

// Update edits a draft entry. Only the owning employee may edit, and only
// while the entry is still a draft.
func (s *Service) Update(ctx context.Context, req timesheet.UpdateTimesheetRequest, actorID string) (timesheet.Timesheet, error) {
	ts, err := s.timesheets.GetByID(ctx, req.ID)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	if ts.EmployeeID != actorID {
		return timesheet.Timesheet{}, timesheet.ErrNotOwner
	}
	if !ts.Editable() {
		return timesheet.Timesheet{}, timesheet.ErrNotEditable
	}

	if req.Hours != nil {
		ts.Hours = *req.Hours
	}
	if req.WorkDate != nil {
		if date, ok := validator.IsValidDate(*req.WorkDate); ok {
			ts.WorkDate = validator.StartOfDay(date)
		}
	}
	if req.Notes != nil {
		ts.Notes = req.Notes
	}

	if _, err := s.ValidateEntry(ctx, timesheet.CreateTimesheetRequest{
		EmployeeID:      ts.EmployeeID,
		WorkDate:        ts.WorkDate.Format("2006-01-02"),
		Hours:           ts.Hours,
		PayrollPeriodID: ts.PayrollPeriodID,
	}, ts.ID); err != nil {
		return timesheet.Timesheet{}, err
	}

	split, err := s.SplitHours(ctx, ts.EmployeeID, ts.Hours, ts.WorkDate, ts.ID)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	ts.RegularHours = split.RegularHours
	ts.OvertimeHours = split.OvertimeHours

	if err := s.timesheets.Update(ctx, ts); err != nil {
		return timesheet.Timesheet{}, err
	}
	return ts, nil
}

// Submit locks editing and recalculates the split against the week as it
// stands at submission time.
func (s *Service) Submit(ctx context.Context, id, actorID string) (timesheet.Timesheet, error) {
	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	if ts.EmployeeID != actorID {
		return timesheet.Timesheet{}, timesheet.ErrNotOwner
	}
	if err := workflow.Transition(workflow.State(ts.Status), workflow.StateSubmitted, ""); err != nil {
		return timesheet.Timesheet{}, timesheet.ErrNotEditable
	}

	split, err := s.SplitHours(ctx, ts.EmployeeID, ts.Hours, ts.WorkDate, ts.ID)
	if err != nil {
		return timesheet.Timesheet{}, err
	}

	if err := s.timesheets.MarkSubmitted(ctx, id, split); err != nil {
		return timesheet.Timesheet{}, err
	}
	ts.Status = timesheet.StatusSubmitted
	ts.RegularHours = split.RegularHours
	ts.OvertimeHours = split.OvertimeHours

	emp, err := s.employees.GetByID(ctx, ts.EmployeeID)
	if err == nil && emp.ManagerID != nil {
		s.notifier.Notify(*emp.ManagerID, notification.TypeTimesheetSubmitted, map[string]any{
			"timesheet_id": ts.ID,
			"employee_id":  ts.EmployeeID,
			"work_date":    ts.WorkDate.Format("2006-01-02"),
		})
	}

	return ts, nil
}

// Approve recalculates the split once more before the terminal flip, so the
// stored division reflects every sibling entry submitted since.
func (s *Service) Approve(ctx context.Context, id, actorID string) (timesheet.Timesheet, error) {
	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	if err := workflow.Transition(workflow.State(ts.Status), workflow.StateApproved, ""); err != nil {
		return timesheet.Timesheet{}, timesheet.ErrAlreadyProcessed
	}
	if err := s.authorizeApprover(ctx, actorID, ts.EmployeeID); err != nil {
		return timesheet.Timesheet{}, err
	}

	split, err := s.SplitHours(ctx, ts.EmployeeID, ts.Hours, ts.WorkDate, ts.ID)
	if err != nil {
		return timesheet.Timesheet{}, err
	}

	approvedAt := time.Now()
	if err := s.timesheets.MarkApproved(ctx, id, actorID, approvedAt, split); err != nil {
		return timesheet.Timesheet{}, err
	}
	ts.Status = timesheet.StatusApproved
	ts.ApprovedBy = &actorID
	ts.ApprovedAt = &approvedAt
	ts.RegularHours = split.RegularHours
	ts.OvertimeHours = split.OvertimeHours

	s.notifier.Notify(ts.EmployeeID, notification.TypeTimesheetApproved, map[string]any{
		"timesheet_id": ts.ID,
		"work_date":    ts.WorkDate.Format("2006-01-02"),
	})

	return ts, nil
}

// Reject requires a non-empty reason.
func (s *Service) Reject(ctx context.Context, id, actorID, reason string) (timesheet.Timesheet, error) {
	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	if err := workflow.Transition(workflow.State(ts.Status), workflow.StateRejected, reason); err != nil {
		return timesheet.Timesheet{}, err
	}
	if err := s.authorizeApprover(ctx, actorID, ts.EmployeeID); err != nil {
		return timesheet.Timesheet{}, err
	}

	rejectedAt := time.Now()
	if err := s.timesheets.MarkRejected(ctx, id, actorID, reason, rejectedAt); err != nil {
		return timesheet.Timesheet{}, err
	}
	ts.Status = timesheet.StatusRejected
	ts.RejectionReason = &reason

	s.notifier.Notify(ts.EmployeeID, notification.TypeTimesheetRejected, map[string]any{
		"timesheet_id": ts.ID,
		"reason":       reason,
	})

	return ts, nil
}

func (s *Service) List(ctx context.Context, employeeID string, from, to time.Time) ([]timesheet.Timesheet, error) {
	return s.timesheets.ListByEmployee(ctx, employeeID, from, to)
}

// BulkApprove applies the single-item approval per id, collecting per-item
// failures instead of aborting the batch.
func (s *Service) BulkApprove(ctx context.Context, ids []string, actorID string) workflow.BulkOutcome {
	return workflow.BulkApply(ctx, ids, func(ctx context.Context, id string) error {
		_, err := s.Approve(ctx, id, actorID)
		return err
	})
}

func (s *Service) BulkReject(ctx context.Context, ids []string, actorID, reason string) workflow.BulkOutcome {
	return workflow.BulkApply(ctx, ids, func(ctx context.Context, id string) error {
		_, err := s.Reject(ctx, id, actorID, reason)
		return err
	})
}

func (s *Service) authorizeApprover(ctx context.Context, actorID, ownerID string) error {
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
