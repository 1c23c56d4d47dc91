package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

type AttendanceSettings struct {
	DailyWorkingHours  float64
	WeeklyWorkingHours float64
}

// Snapshot is a consistent view of every configuration surface a payroll
// run or ledger operation needs. It is loaded once per batch so that tax
// and overtime rules cannot change mid-run.
type Snapshot struct {
	Payroll    payroll.Settings
	Attendance AttendanceSettings
	Policies   map[leave.Type]leave.Policy
}

// Policy returns the policy for a leave type, with ok=false when the type
// has no enabled policy entry.
func (s Snapshot) Policy(t leave.Type) (leave.Policy, bool) {
	p, ok := s.Policies[t]
	return p, ok && p.Enabled
}

type Repository interface {
	GetPayrollSettings(ctx context.Context) (payroll.Settings, error)
	GetAttendanceSettings(ctx context.Context) (AttendanceSettings, error)
	GetLeavePolicies(ctx context.Context) ([]leave.Policy, error)
}

// Provider hands out configuration snapshots.
type Provider interface {
	Snapshot(ctx context.Context) Snapshot
}

type Service struct {
	repo     Repository
	defaults Snapshot
	timeout  time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		defaults: Defaults(cfg),
		timeout:  cfg.App.SettingsTimeout,
	}
}

// Defaults builds the documented fallback snapshot from config.
func Defaults(cfg *config.Config) Snapshot {
	policies := map[leave.Type]leave.Policy{
		leave.TypeAnnual:    {Type: leave.TypeAnnual, MaxDays: 20, AccrualRate: 1.67, CarryForwardLimit: 5, CarryForwardEnabled: true, Enabled: true},
		leave.TypeSick:      {Type: leave.TypeSick, MaxDays: 10, AccrualRate: 0.83, CarryForwardEnabled: true, Enabled: true},
		leave.TypeCasual:    {Type: leave.TypeCasual, MaxDays: 5, Enabled: true},
		leave.TypePaid:      {Type: leave.TypePaid, MaxDays: 5, Enabled: true},
		leave.TypeUnpaid:    {Type: leave.TypeUnpaid, Enabled: true},
		leave.TypeMaternity: {Type: leave.TypeMaternity, MaxDays: 90, Enabled: true},
		leave.TypePaternity: {Type: leave.TypePaternity, MaxDays: 14, Enabled: true},
	}

	return Snapshot{
		Payroll: payroll.Settings{
			Overtime: payroll.OvertimeRules{
				WeeklyThreshold:    cfg.Attendance.WeeklyWorkingHours,
				DailyThreshold:     cfg.Attendance.DailyWorkingHours,
				OvertimeMultiplier: cfg.Payroll.OvertimeMultiplier,
			},
			Taxes: payroll.TaxSettings{
				FederalRate:            cfg.Payroll.FederalTaxRate,
				StateRate:              cfg.Payroll.StateTaxRate,
				LocalRate:              cfg.Payroll.LocalTaxRate,
				SocialSecurityRate:     cfg.Payroll.SocialSecurityRate,
				SocialSecurityWageBase: cfg.Payroll.SocialSecurityWageBase,
				MedicareRate:           cfg.Payroll.MedicareRate,
			},
		},
		Attendance: AttendanceSettings{
			DailyWorkingHours:  cfg.Attendance.DailyWorkingHours,
			WeeklyWorkingHours: cfg.Attendance.WeeklyWorkingHours,
		},
		Policies: policies,
	}
}

// Snapshot loads all three settings surfaces inside one timeout budget.
// Any surface that cannot be loaded in time falls back to the documented
// defaults rather than blocking the run.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snapshot := s.defaults

	if payrollSettings, err := s.repo.GetPayrollSettings(ctx); err != nil {
		slog.Warn("Falling back to default payroll settings", "error", err)
	} else {
		snapshot.Payroll = payrollSettings
	}

	if attendanceSettings, err := s.repo.GetAttendanceSettings(ctx); err != nil {
		slog.Warn("Falling back to default attendance settings", "error", err)
	} else {
		snapshot.Attendance = attendanceSettings
		snapshot.Payroll.Overtime.WeeklyThreshold = attendanceSettings.WeeklyWorkingHours
		snapshot.Payroll.Overtime.DailyThreshold = attendanceSettings.DailyWorkingHours
	}

	if policies, err := s.repo.GetLeavePolicies(ctx); err != nil {
		slog.Warn("Falling back to default leave policies", "error", err)
	} else if len(policies) > 0 {
		byType := make(map[leave.Type]leave.Policy, len(policies))
		for _, p := range policies {
			byType[p.Type] = p
		}
		snapshot.Policies = byType
	}

	return snapshot
}
