// Package policy decides whether a principal may perform an action.
//
// All role and ownership rules live here so that handlers never compare
// role strings themselves.
package policy

import (
	"github.com/google/uuid"
)

// Role is the role of an employee. The set of roles is closed.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleEngineer   Role = "ENGINEER"
	RoleHOApprover Role = "HO_APPROVER"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleEngineer, RoleHOApprover, RoleAdmin:
		return true
	}
	return false
}

// Action is something a principal can request to do.
type Action string

const (
	ActionVerifyClaim       Action = "claim:verify"
	ActionApproveClaim      Action = "claim:approve"
	ActionEditClaim         Action = "claim:edit"
	ActionVerifyAllocation  Action = "allocation:verify"
	ActionApproveAllocation Action = "allocation:approve"
	ActionManageAllocations Action = "allocation:manage"
	ActionManageEmployees   Action = "employee:manage"
	ActionManageExpenseType Action = "expense-type:manage"
	ActionViewAll           Action = "resource:view-all"
)

// Principal is the authenticated actor performing an action.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// CanPerform decides whether the principal may perform the action on a
// resource owned by ownerID. For actions that have no owned resource,
// ownerID is uuid.Nil.
//
// A reporting-manager relationship grants nothing here, it is
// informational only.
func CanPerform(p Principal, action Action, ownerID uuid.UUID) bool {
	if p.Role == RoleAdmin {
		return true
	}

	switch action {
	case ActionVerifyClaim, ActionVerifyAllocation:
		return p.Role == RoleEngineer
	case ActionApproveClaim, ActionApproveAllocation:
		return p.Role == RoleHOApprover
	case ActionEditClaim:
		return p.ID != uuid.Nil && p.ID == ownerID
	case ActionViewAll:
		return p.Role == RoleEngineer || p.Role == RoleHOApprover
	}

	// Everything else is reserved for administrators
	return false
}
