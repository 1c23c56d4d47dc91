package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	FullName     string
	Email        string
	DepartmentID string
	ManagerID    *string
	Role         Role
	Status       Status
	SalaryType   SalaryType
	BaseSalary   *decimal.Decimal
	HourlyRate   *decimal.Decimal
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleDeptLead Role = "dept_lead"
	RoleAdmin    Role = "admin"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "monthly"
	SalaryTypeAnnual  SalaryType = "annual"
	SalaryTypeHourly  SalaryType = "hourly"
)

// IsActive reports whether the employee is eligible for payroll runs.
func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
