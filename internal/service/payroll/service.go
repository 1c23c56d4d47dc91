package payroll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

type Service struct {
	db         database.Transactor
	periods    payroll.PeriodRepository
	stubs      payroll.StubRepository
	employees  employee.EmployeeRepository
	timesheets timesheet.TimesheetRepository
	settings   settings.Provider
	notifier   notification.Notifier
	workers    int
}

func NewService(
	db database.Transactor,
	periods payroll.PeriodRepository,
	stubs payroll.StubRepository,
	employees employee.EmployeeRepository,
	timesheets timesheet.TimesheetRepository,
	settingsProvider settings.Provider,
	notifier notification.Notifier,
	workers int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		db:         db,
		periods:    periods,
		stubs:      stubs,
		employees:  employees,
		timesheets: timesheets,
		settings:   settingsProvider,
		notifier:   notifier,
		workers:    workers,
	}
}

func (s *Service) CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.Period, error) {
	if err := req.Validate(); err != nil {
		return payroll.Period{}, err
	}

	start, _ := validator.IsValidDate(req.PeriodStart)
	end, _ := validator.IsValidDate(req.PeriodEnd)
	payDate, _ := validator.IsValidDate(req.PayDate)

	return s.periods.Create(ctx, payroll.Period{
		PeriodStart: validator.StartOfDay(start),
		PeriodEnd:   validator.StartOfDay(end),
		PayDate:     validator.StartOfDay(payDate),
		Status:      payroll.PeriodStatusDraft,
	})
}

func (s *Service) GetPeriod(ctx context.Context, id string) (payroll.Period, error) {
	return s.periods.GetByID(ctx, id)
}

// ProcessPeriod runs payroll for every active employee of a draft period.
//
// The guarded claim to processing happens before any stub is written, so a
// second ProcessPeriod for the same period fails fast instead of producing
// duplicate stubs. Individual employee failures are recorded and skipped;
// they never abort the batch.
func (s *Service) ProcessPeriod(ctx context.Context, periodID, actorID string, req payroll.ProcessPeriodRequest) (payroll.ProcessResult, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return payroll.ProcessResult{}, err
	}

	if err := s.periods.ClaimProcessing(ctx, period.ID, actorID, time.Now()); err != nil {
		return payroll.ProcessResult{}, err
	}

	snapshot := s.settings.Snapshot(ctx)
	calc := NewCalculator(snapshot.Payroll)

	activeEmployees, err := s.employees.ListActive(ctx, req.DepartmentID)
	if err != nil {
		return payroll.ProcessResult{}, err
	}

	var (
		mu     sync.Mutex
		stubs  []payroll.PayStub
		failed []payroll.EmployeeFailure
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, emp := range activeEmployees {
		emp := emp
		group.Go(func() error {
			stub, err := s.processEmployee(groupCtx, calc, emp, period)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("Failed to process employee payroll",
					"period_id", period.ID,
					"employee_id", emp.ID,
					"error", err,
				)
				failed = append(failed, payroll.EmployeeFailure{EmployeeID: emp.ID, Reason: err.Error()})
				return nil
			}
			stubs = append(stubs, stub)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return payroll.ProcessResult{}, err
	}

	totals := reduceTotals(stubs)
	if err := s.periods.UpdateTotals(ctx, period.ID, totals); err != nil {
		return payroll.ProcessResult{}, err
	}

	slog.Info("Payroll period processed",
		"period_id", period.ID,
		"employees", totals.EmployeeCount,
		"failed", len(failed),
		"total_gross", totals.GrossPay,
	)

	s.notifier.Notify(actorID, notification.TypePayrollProcessed, map[string]any{
		"period_id":      period.ID,
		"employee_count": totals.EmployeeCount,
		"failed_count":   len(failed),
	})

	return payroll.ProcessResult{PayStubs: stubs, Totals: totals, Failed: failed}, nil
}

func (s *Service) processEmployee(ctx context.Context, calc *Calculator, emp employee.Employee, period payroll.Period) (payroll.PayStub, error) {
	hours, err := s.timesheets.SumApprovedInRange(ctx, emp.ID, period.PeriodStart, period.PeriodEnd)
	if err != nil {
		return payroll.PayStub{}, err
	}

	ytd, err := s.stubs.SumYTD(ctx, emp.ID, period.PeriodEnd.Year())
	if err != nil {
		return payroll.PayStub{}, err
	}

	lines, err := calc.GrossPay(emp, hours)
	if err != nil {
		return payroll.PayStub{}, err
	}

	taxes := calc.ComputeTaxes(lines.GrossPay, ytd.GrossPay)
	deductions := calc.ComputeDeductions(lines.GrossPay)
	net := calc.NetPay(lines.GrossPay, taxes, deductions)

	stub := payroll.PayStub{
		EmployeeID:      emp.ID,
		PayrollPeriodID: period.ID,
		GrossPay:        lines.GrossPay,
		RegularHours:    lines.RegularHours,
		RegularRate:     lines.RegularRate,
		OvertimeHours:   lines.OvertimeHours,
		OvertimeRate:    lines.OvertimeRate,
		OvertimePay:     lines.OvertimePay,
		Taxes:           taxes,
		Deductions:      deductions,
		NetPay:          net,
		YTDGrossPay:     ytd.GrossPay.Add(lines.GrossPay),
		YTDNetPay:       ytd.NetPay.Add(net),
		YTDTaxes:        ytd.Taxes.Add(taxes.Total),
		Status:          payroll.StubStatusProcessing,
	}

	return s.stubs.Create(ctx, stub)
}

// ApprovePeriod finalizes a processing period: the period flips to completed
// and every stub to paid in one transaction. Only admins may approve.
func (s *Service) ApprovePeriod(ctx context.Context, periodID, actorID string) (payroll.Period, error) {
	actor, err := s.employees.GetByID(ctx, actorID)
	if err != nil {
		return payroll.Period{}, err
	}
	if actor.Role != employee.RoleAdmin {
		return payroll.Period{}, employee.ErrUnauthorized
	}

	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return payroll.Period{}, err
	}
	if period.Status != payroll.PeriodStatusProcessing {
		return payroll.Period{}, payroll.ErrInvalidPeriodState
	}

	approvedAt := time.Now()
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.periods.Complete(ctx, period.ID, actorID, approvedAt); err != nil {
			return err
		}
		paid, err := s.stubs.MarkPaidByPeriod(ctx, period.ID, approvedAt)
		if err != nil {
			return err
		}
		slog.Info("Payroll period approved", "period_id", period.ID, "stubs_paid", paid)
		return nil
	})
	if err != nil {
		return payroll.Period{}, err
	}

	period.Status = payroll.PeriodStatusCompleted
	period.ApprovedBy = &actorID
	period.ApprovedAt = &approvedAt

	return period, nil
}

func (s *Service) ListStubs(ctx context.Context, periodID string) ([]payroll.PayStub, error) {
	return s.stubs.ListByPeriod(ctx, periodID)
}

func (s *Service) GetStub(ctx context.Context, id string) (payroll.PayStub, error) {
	return s.stubs.GetByID(ctx, id)
}

func (s *Service) GetYTD(ctx context.Context, employeeID string, year int) (payroll.YTD, error) {
	return s.stubs.SumYTD(ctx, employeeID, year)
}

func reduceTotals(stubs []payroll.PayStub) payroll.Totals {
	totals := payroll.Totals{
		GrossPay:   decimal.Zero,
		NetPay:     decimal.Zero,
		Deductions: decimal.Zero,
		Taxes:      decimal.Zero,
	}
	for _, stub := range stubs {
		totals.GrossPay = totals.GrossPay.Add(stub.GrossPay)
		totals.NetPay = totals.NetPay.Add(stub.NetPay)
		totals.Deductions = totals.Deductions.Add(stub.Deductions.TotalDeductions)
		totals.Taxes = totals.Taxes.Add(stub.Taxes.Total)
	}
	totals.EmployeeCount = len(stubs)
	return totals
}
