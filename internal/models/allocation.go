package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation is a cash budget given to an employee for a category of
// expenses. It is tracked through two independent approval stages:
// engineer verification (StatusEng) and head-office approval (StatusHo).
type Allocation struct {
	DefaultModel
	EmployeeID     uuid.UUID       `json:"employeeId"`
	Employee       Employee        `json:"-"`
	ExpenseTypeID  uuid.UUID       `json:"expenseTypeId"`
	ExpenseType    ExpenseType     `json:"-"`
	AllocationDate time.Time       `json:"allocationDate"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	BillNumber     string          `json:"billNumber"`
	BillDate       *time.Time      `json:"billDate"`
	FileURL        string          `json:"fileUrl"`
	Notes          string          `json:"notes"`
	Remarks        string          `json:"remarks"`
	StatusEng      ApprovalStatus  `json:"statusEng" example:"PENDING"`
	StatusHo       ApprovalStatus  `json:"statusHo" example:"PENDING"`
	EngNotes       string          `json:"engNotes"`
	HoNotes        string          `json:"hoNotes"`
}

// BeforeCreate validates the referenced resources and defaults both
// approval tracks to PENDING.
func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	err := a.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if !a.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	var employee Employee
	err = tx.First(&employee, "id = ?", a.EmployeeID).Error
	if err != nil {
		return err
	}
	if !employee.Active {
		return ErrEmployeeInactive
	}

	var expenseType ExpenseType
	err = tx.First(&expenseType, "id = ?", a.ExpenseTypeID).Error
	if err != nil {
		return err
	}
	if !expenseType.Active {
		return ErrExpenseTypeInactive
	}

	a.StatusEng = StatusPending
	a.StatusHo = StatusPending

	if a.AllocationDate.IsZero() {
		a.AllocationDate = time.Now().In(time.UTC)
	} else {
		a.AllocationDate = a.AllocationDate.In(time.UTC)
	}

	return nil
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	a.Notes = strings.TrimSpace(a.Notes)
	a.Remarks = strings.TrimSpace(a.Remarks)
	return nil
}

// AfterFind enforces UTC dates, see DefaultModel.AfterFind.
func (a *Allocation) AfterFind(tx *gorm.DB) error {
	err := a.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	a.AllocationDate = a.AllocationDate.In(time.UTC)
	return nil
}

// VerifyEng records the engineer verification outcome. There is no
// precondition on the current StatusEng: re-verification overwrites the
// previous outcome.
func (a *Allocation) VerifyEng(db *gorm.DB, approved bool, notes string) error {
	res := db.Model(&Allocation{}).
		Where("id = ?", a.ID).
		UpdateColumns(map[string]any{
			"status_eng": outcome(approved),
			"eng_notes":  notes,
			"updated_at": time.Now().In(time.UTC),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.First(&Allocation{}, "id = ?", a.ID).Error
	}

	return db.First(a, "id = ?", a.ID).Error
}

// ApproveHo records the head-office outcome. The write is conditional on
// the engineer verification being APPROVED at the moment of the call, so
// concurrent callers cannot slip an approval past the gate. Repeated calls
// are allowed and overwrite StatusHo.
func (a *Allocation) ApproveHo(db *gorm.DB, approved bool, notes string) error {
	res := db.Model(&Allocation{}).
		Where("id = ? AND status_eng = ?", a.ID, StatusApproved).
		UpdateColumns(map[string]any{
			"status_ho":  outcome(approved),
			"ho_notes":   notes,
			"updated_at": time.Now().In(time.UTC),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing allocation from a gating failure
		err := db.First(&Allocation{}, "id = ?", a.ID).Error
		if err != nil {
			return err
		}
		return ErrEngineerApprovalRequired
	}

	return db.First(a, "id = ?", a.ID).Error
}
