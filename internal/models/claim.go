package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lifecycle is the explicit state of a claim in the two-stage approval
// flow.
//
// The persisted Status field alone cannot distinguish "verified by an
// engineer" from "approved by head office" since both write APPROVED.
// Lifecycle is therefore always derived from the combination of Status,
// VerifiedByID and ApprovedByID, never stored.
type Lifecycle string

const (
	LifecycleCreated          Lifecycle = "CREATED"
	LifecycleVerified         Lifecycle = "VERIFIED"
	LifecycleVerifiedRejected Lifecycle = "VERIFIED_REJECTED"
	LifecycleFinalApproved    Lifecycle = "FINAL_APPROVED"
	LifecycleFinalRejected    Lifecycle = "FINAL_REJECTED"
)

// Claim is an employee's request for reimbursement of an expense. It is
// created by the owning employee, verified by an engineer and finally
// approved by a head-office approver.
type Claim struct {
	DefaultModel
	EmployeeID    uuid.UUID       `json:"employeeId"`
	Employee      Employee        `json:"-"`
	ExpenseTypeID uuid.UUID       `json:"expenseTypeId"`
	ExpenseType   ExpenseType     `json:"-"`
	AllocationID  *uuid.UUID      `json:"allocationId"`
	Allocation    *Allocation     `json:"-"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Description   string          `json:"description"`
	BillNumber    string          `json:"billNumber"`
	BillDate      *time.Time      `json:"billDate"`
	Notes         string          `json:"notes"`
	FileURL       string          `json:"fileUrl"`

	Status          ApprovalStatus `json:"status" example:"PENDING"`
	VerifiedByID    *uuid.UUID     `json:"verifiedById"`
	VerifiedAt      *time.Time     `json:"verifiedAt"`
	VerifiedNotes   string         `json:"verifiedNotes"`
	ApprovedByID    *uuid.UUID     `json:"approvedById"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	ApprovedNotes   string         `json:"approvedNotes"`
	RejectionReason string         `json:"rejectionReason"`
}

// Lifecycle derives the explicit lifecycle state.
func (c Claim) Lifecycle() Lifecycle {
	switch {
	case c.ApprovedByID != nil && c.Status == StatusApproved:
		return LifecycleFinalApproved
	case c.ApprovedByID != nil:
		return LifecycleFinalRejected
	case c.VerifiedByID != nil && c.Status == StatusApproved:
		return LifecycleVerified
	case c.VerifiedByID != nil:
		return LifecycleVerifiedRejected
	default:
		return LifecycleCreated
	}
}

// Editable reports whether the claim content may still be changed or the
// claim deleted. Only freshly created claims are editable.
func (c Claim) Editable() bool {
	return c.Lifecycle() == LifecycleCreated
}

// BeforeCreate validates the owner, the expense type and, when set, the
// referenced allocation. Claims always start in the CREATED state.
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	err := c.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if !c.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	var employee Employee
	err = tx.First(&employee, "id = ?", c.EmployeeID).Error
	if err != nil {
		return err
	}
	if !employee.Active {
		return ErrEmployeeInactive
	}

	err = CheckExpenseType(tx, c.ExpenseTypeID)
	if err != nil {
		return err
	}

	if c.AllocationID != nil && *c.AllocationID == uuid.Nil {
		c.AllocationID = nil
	}

	if c.AllocationID != nil {
		var allocation Allocation
		err = tx.First(&allocation, "id = ?", *c.AllocationID).Error
		if err != nil {
			return err
		}
		if allocation.EmployeeID != c.EmployeeID {
			return ErrAllocationOwnerMismatch
		}
	}

	c.Status = StatusPending
	c.VerifiedByID = nil
	c.ApprovedByID = nil

	return nil
}

func (c *Claim) BeforeSave(_ *gorm.DB) error {
	c.Description = strings.TrimSpace(c.Description)
	c.Notes = strings.TrimSpace(c.Notes)
	return nil
}

// CheckExpenseType verifies that the expense type exists and is active.
func CheckExpenseType(tx *gorm.DB, id uuid.UUID) error {
	var expenseType ExpenseType
	err := tx.First(&expenseType, "id = ?", id).Error
	if err != nil {
		return err
	}
	if !expenseType.Active {
		return ErrExpenseTypeInactive
	}
	return nil
}

// Verify records the engineer verification outcome. It is only legal while
// the claim is in the CREATED state.
//
// The update is conditional on the current state, so of two concurrent
// calls at most one succeeds; the loser gets ErrClaimNotPending.
func (c *Claim) Verify(db *gorm.DB, verifierID uuid.UUID, approved bool, notes string) error {
	now := time.Now().In(time.UTC)

	fields := map[string]any{
		"status":         outcome(approved),
		"verified_by_id": verifierID,
		"verified_at":    now,
		"verified_notes": notes,
		"updated_at":     now,
	}
	if !approved {
		fields["rejection_reason"] = notes
	}

	res := db.Model(&Claim{}).
		Where("id = ? AND status = ? AND verified_by_id IS NULL", c.ID, StatusPending).
		UpdateColumns(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		err := db.First(&Claim{}, "id = ?", c.ID).Error
		if err != nil {
			return err
		}
		return ErrClaimNotPending
	}

	return db.First(c, "id = ?", c.ID).Error
}

// Approve records the head-office outcome. It is only legal while the
// claim is in the VERIFIED state: verified by an engineer and not yet
// finally approved or rejected.
func (c *Claim) Approve(db *gorm.DB, approverID uuid.UUID, approved bool, notes string) error {
	now := time.Now().In(time.UTC)

	fields := map[string]any{
		"status":         outcome(approved),
		"approved_by_id": approverID,
		"approved_at":    now,
		"approved_notes": notes,
		"updated_at":     now,
	}
	if !approved {
		fields["rejection_reason"] = notes
	}

	res := db.Model(&Claim{}).
		Where("id = ? AND status = ? AND verified_by_id IS NOT NULL AND approved_by_id IS NULL", c.ID, StatusApproved).
		UpdateColumns(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		err := db.First(&Claim{}, "id = ?", c.ID).Error
		if err != nil {
			return err
		}
		return ErrClaimNotVerified
	}

	return db.First(c, "id = ?", c.ID).Error
}
