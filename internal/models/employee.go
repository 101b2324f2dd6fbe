package models

import (
	"strings"

	"github.com/expenseflow/backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// managerChainLimit bounds the walk up the reporting-manager chain. A
// chain longer than this is treated as a cycle.
const managerChainLimit = 100

// Employee is a principal of the system. Employees are never hard-deleted,
// they are deactivated instead.
type Employee struct {
	DefaultModel
	Name               string      `json:"name" example:"Jane Mukasa"`
	Email              string      `json:"email" gorm:"uniqueIndex" example:"jane@example.com"`
	PasswordHash       string      `json:"-"`
	Role               policy.Role `json:"role" example:"ENGINEER"`
	Active             bool        `json:"active" example:"true"`
	ReportingManagerID *uuid.UUID  `json:"reportingManagerId"`
	ReportingManager   *Employee   `json:"-"`
}

// Principal returns the employee as a policy principal.
func (e Employee) Principal() policy.Principal {
	return policy.Principal{ID: e.ID, Role: e.Role}
}

// BeforeCreate rejects employees without a member of the closed role set.
// This only runs on creation: update hooks see partial structs, so an
// empty role there means the role is not being changed.
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	err := e.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if !e.Role.Valid() {
		return ErrRoleInvalid
	}

	return nil
}

// BeforeSave normalizes the email address and validates the role and the
// reporting-manager chain.
func (e *Employee) BeforeSave(tx *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))

	if e.Role != "" && !e.Role.Valid() {
		return ErrRoleInvalid
	}

	return e.CheckManagerChain(tx)
}

// CheckManagerChain walks up the reporting-manager chain and verifies that
// assigning the manager does not introduce a cycle. The walk is bounded,
// chains longer than managerChainLimit are rejected as well.
func (e *Employee) CheckManagerChain(tx *gorm.DB) error {
	if e.ReportingManagerID == nil || *e.ReportingManagerID == uuid.Nil {
		e.ReportingManagerID = nil
		return nil
	}

	if *e.ReportingManagerID == e.ID {
		return ErrManagerIsSelf
	}

	current := *e.ReportingManagerID
	for i := 0; i < managerChainLimit; i++ {
		var manager Employee
		err := tx.First(&manager, "id = ?", current).Error
		if err != nil {
			return err
		}

		if manager.ReportingManagerID == nil {
			return nil
		}

		if *manager.ReportingManagerID == e.ID {
			return ErrManagerCycle
		}

		current = *manager.ReportingManagerID
	}

	return ErrManagerCycle
}
