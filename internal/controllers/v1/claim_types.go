package v1

import (
	"fmt"
	"time"

	"github.com/expenseflow/backend/internal/models"
	ef_uuid "github.com/expenseflow/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimEditable represents all user configurable parameters
type ClaimEditable struct {
	EmployeeID    uuid.UUID       `json:"employeeId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"` // Defaults to the requesting employee
	ExpenseTypeID uuid.UUID       `json:"expenseTypeId" example:"c1f96ce8-a69a-4f39-8306-51d48eb52a2e"`
	AllocationID  *uuid.UUID      `json:"allocationId"`
	Amount        decimal.Decimal `json:"amount" example:"230.50"`
	Description   string          `json:"description" example:"Taxi to the client site"`
	BillNumber    string          `json:"billNumber" example:"TX-551"`
	BillDate      *time.Time      `json:"billDate"`
	Notes         string          `json:"notes"`
	FileURL       string          `json:"fileUrl"`
}

func (editable ClaimEditable) model() models.Claim {
	return models.Claim{
		EmployeeID:    editable.EmployeeID,
		ExpenseTypeID: editable.ExpenseTypeID,
		AllocationID:  editable.AllocationID,
		Amount:        editable.Amount,
		Description:   editable.Description,
		BillNumber:    editable.BillNumber,
		BillDate:      editable.BillDate,
		Notes:         editable.Notes,
		FileURL:       editable.FileURL,
	}
}

// claimForm is the multipart variant of ClaimEditable. All values arrive
// as strings and are parsed explicitly, the receipt file is read from the
// "receipt" form field.
type claimForm struct {
	EmployeeID    string `form:"employeeId"`
	ExpenseTypeID string `form:"expenseTypeId"`
	AllocationID  string `form:"allocationId"`
	Amount        string `form:"amount"`
	Description   string `form:"description"`
	BillNumber    string `form:"billNumber"`
	BillDate      string `form:"billDate"`
	Notes         string `form:"notes"`
}

func (form claimForm) parse() (ClaimEditable, error) {
	editable := ClaimEditable{
		Description: form.Description,
		BillNumber:  form.BillNumber,
		Notes:       form.Notes,
	}

	if form.EmployeeID != "" {
		id, err := uuid.Parse(form.EmployeeID)
		if err != nil {
			return ClaimEditable{}, err
		}
		editable.EmployeeID = id
	}

	if form.ExpenseTypeID != "" {
		id, err := uuid.Parse(form.ExpenseTypeID)
		if err != nil {
			return ClaimEditable{}, err
		}
		editable.ExpenseTypeID = id
	}

	if form.AllocationID != "" {
		id, err := uuid.Parse(form.AllocationID)
		if err != nil {
			return ClaimEditable{}, err
		}
		editable.AllocationID = &id
	}

	if form.Amount != "" {
		amount, err := decimal.NewFromString(form.Amount)
		if err != nil {
			return ClaimEditable{}, errAmountInvalid
		}
		editable.Amount = amount
	}

	if form.BillDate != "" {
		date, err := time.Parse("2006-01-02", form.BillDate)
		if err != nil {
			return ClaimEditable{}, errDateInvalid
		}
		editable.BillDate = &date
	}

	return editable, nil
}

type ClaimLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/claims/2c8ec834-f527-4a6d-b3b6-dfb8adfbc2a9"`
	Employee    string `json:"employee" example:"https://example.com/api/v1/employees/af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"`
	ExpenseType string `json:"expenseType" example:"https://example.com/api/v1/expense-types/c1f96ce8-a69a-4f39-8306-51d48eb52a2e"`
}

type Claim struct {
	models.Claim
	Lifecycle models.Lifecycle `json:"lifecycle" example:"CREATED"`
	Links     ClaimLinks       `json:"links"`
}

func newClaim(c *gin.Context, model models.Claim) Claim {
	url := c.GetString(string(models.ContextAPIURL))

	return Claim{
		Claim:     model,
		Lifecycle: model.Lifecycle(),
		Links: ClaimLinks{
			Self:        fmt.Sprintf("%s/v1/claims/%s", url, model.ID),
			Employee:    fmt.Sprintf("%s/v1/employees/%s", url, model.EmployeeID),
			ExpenseType: fmt.Sprintf("%s/v1/expense-types/%s", url, model.ExpenseTypeID),
		},
	}
}

type ClaimResponse struct {
	Data  *Claim  `json:"data"`  // Data for the claim
	Error *string `json:"error"` // The error, if any occurred
}

type ClaimListResponse struct {
	Data       []Claim     `json:"data"`       // List of claims
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type ClaimQueryFilter struct {
	Employee    ef_uuid.UUID          `form:"employee"`                      // By employee
	ExpenseType ef_uuid.UUID          `form:"expenseType"`                   // By expense type
	Allocation  ef_uuid.UUID          `form:"allocation"`                    // By allocation
	Status      models.ApprovalStatus `form:"status"`                        // By raw approval status
	Lifecycle   models.Lifecycle      `form:"lifecycle" filterField:"false"` // By derived lifecycle state
	Offset      uint                  `form:"offset" filterField:"false"`    // The offset of the first claim returned. Defaults to 0.
	Limit       int                   `form:"limit" filterField:"false"`     // Maximum number of claims to return. Defaults to 50.
}

func (f ClaimQueryFilter) model() models.Claim {
	var allocationID *uuid.UUID
	if f.Allocation.UUID != uuid.Nil {
		allocationID = &f.Allocation.UUID
	}

	return models.Claim{
		EmployeeID:    f.Employee.UUID,
		ExpenseTypeID: f.ExpenseType.UUID,
		AllocationID:  allocationID,
		Status:        f.Status,
	}
}
