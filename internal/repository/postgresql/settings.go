package postgresql

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepositoryImpl{db: db}
}

// GetPayrollSettings implements settings.Repository. Each surface lives as
// one jsonb row in company_settings; a missing row is an error the provider
// answers with its defaults.
func (r *settingsRepositoryImpl) GetPayrollSettings(ctx context.Context) (payroll.Settings, error) {
	var s payroll.Settings
	if err := r.getSurface(ctx, "payroll", &s); err != nil {
		return payroll.Settings{}, err
	}
	return s, nil
}

// GetAttendanceSettings implements settings.Repository.
func (r *settingsRepositoryImpl) GetAttendanceSettings(ctx context.Context) (settings.AttendanceSettings, error) {
	var s settings.AttendanceSettings
	if err := r.getSurface(ctx, "attendance", &s); err != nil {
		return settings.AttendanceSettings{}, err
	}
	return s, nil
}

func (r *settingsRepositoryImpl) getSurface(ctx context.Context, name string, out any) error {
	q := database.GetQuerier(ctx, r.db)

	var raw []byte
	query := `SELECT value FROM company_settings WHERE name = $1`
	if err := q.QueryRow(ctx, query, name).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// GetLeavePolicies implements settings.Repository.
func (r *settingsRepositoryImpl) GetLeavePolicies(ctx context.Context) ([]leave.Policy, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type, max_days, accrual_rate, carry_forward_limit,
			   carry_forward_enabled, enabled
		FROM leave_policies
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policies := make([]leave.Policy, 0)
	for rows.Next() {
		var p leave.Policy
		if err := rows.Scan(
			&p.Type, &p.MaxDays, &p.AccrualRate, &p.CarryForwardLimit,
			&p.CarryForwardEnabled, &p.Enabled,
		); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
