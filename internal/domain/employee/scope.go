package employee

import (
	"context"
	"fmt"
)

// AccessScope is the set of employees an actor may act on. It replaces the
// inline role branches that used to be repeated in every approval handler.
type AccessScope struct {
	All               bool
	Own               string
	DirectReports     []string
	DepartmentMembers []string
}

// ResolveAccessScope computes the actor's scope once; callers then gate every
// query and approval through Covers.
func ResolveAccessScope(ctx context.Context, repo EmployeeRepository, actor Employee) (AccessScope, error) {
	scope := AccessScope{Own: actor.ID}

	switch actor.Role {
	case RoleAdmin:
		scope.All = true
	case RoleDeptLead:
		members, err := repo.ListByDepartment(ctx, actor.DepartmentID)
		if err != nil {
			return AccessScope{}, fmt.Errorf("failed to list department members: %w", err)
		}
		for _, m := range members {
			scope.DepartmentMembers = append(scope.DepartmentMembers, m.ID)
		}
		fallthrough
	case RoleManager:
		reports, err := repo.ListDirectReports(ctx, actor.ID)
		if err != nil {
			return AccessScope{}, fmt.Errorf("failed to list direct reports: %w", err)
		}
		for _, r := range reports {
			scope.DirectReports = append(scope.DirectReports, r.ID)
		}
	}

	return scope, nil
}

// Covers reports whether the scope includes the given employee.
func (s AccessScope) Covers(employeeID string) bool {
	if s.All || s.Own == employeeID {
		return true
	}
	for _, id := range s.DirectReports {
		if id == employeeID {
			return true
		}
	}
	for _, id := range s.DepartmentMembers {
		if id == employeeID {
			return true
		}
	}
	return false
}

// CanApprove reports whether the scope may approve items owned by the given
// employee. Self-approval is not allowed; the owner falls back to their
// manager, department lead or an admin.
func (s AccessScope) CanApprove(ownerID string) bool {
	if s.Own == ownerID && !s.All {
		return false
	}
	return s.Covers(ownerID)
}
