package models

import (
	"strings"

	"gorm.io/gorm"
)

// ExpenseType is a category of expenses that allocations and claims
// reference.
type ExpenseType struct {
	DefaultModel
	Name   string `json:"name" gorm:"uniqueIndex" example:"Conference"`
	Active bool   `json:"active" example:"true"`
}

func (t *ExpenseType) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	return nil
}

// ReferenceCount returns the number of allocations and claims that
// reference the expense type. A referenced expense type cannot be deleted.
func (t ExpenseType) ReferenceCount(db *gorm.DB) (int64, error) {
	var allocations, claims int64

	err := db.Model(&Allocation{}).Where("expense_type_id = ?", t.ID).Count(&allocations).Error
	if err != nil {
		return 0, err
	}

	err = db.Model(&Claim{}).Where("expense_type_id = ?", t.ID).Count(&claims).Error
	if err != nil {
		return 0, err
	}

	return allocations + claims, nil
}
