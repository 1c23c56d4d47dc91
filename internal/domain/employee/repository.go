package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context, departmentID string) ([]Employee, error)
	ListDirectReports(ctx context.Context, managerID string) ([]Employee, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error)
}
