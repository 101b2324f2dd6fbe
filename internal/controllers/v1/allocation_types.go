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

// AllocationEditable represents all user configurable parameters
type AllocationEditable struct {
	EmployeeID     uuid.UUID       `json:"employeeId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"`
	ExpenseTypeID  uuid.UUID       `json:"expenseTypeId" example:"c1f96ce8-a69a-4f39-8306-51d48eb52a2e"`
	AllocationDate time.Time       `json:"allocationDate" example:"2024-03-01T00:00:00Z"`
	Amount         decimal.Decimal `json:"amount" example:"1500.00"`
	BillNumber     string          `json:"billNumber" example:"INV-2024-0042"`
	BillDate       *time.Time      `json:"billDate"`
	FileURL        string          `json:"fileUrl"`
	Notes          string          `json:"notes" example:"Site visit travel budget"`
	Remarks        string          `json:"remarks"`
}

func (editable AllocationEditable) model() models.Allocation {
	return models.Allocation{
		EmployeeID:     editable.EmployeeID,
		ExpenseTypeID:  editable.ExpenseTypeID,
		AllocationDate: editable.AllocationDate,
		Amount:         editable.Amount,
		BillNumber:     editable.BillNumber,
		BillDate:       editable.BillDate,
		FileURL:        editable.FileURL,
		Notes:          editable.Notes,
		Remarks:        editable.Remarks,
	}
}

type AllocationLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/allocations/d1b4a07e-465d-4c82-a8d7-5aadc5a44b5b"`
	Employee    string `json:"employee" example:"https://example.com/api/v1/employees/af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"`
	ExpenseType string `json:"expenseType" example:"https://example.com/api/v1/expense-types/c1f96ce8-a69a-4f39-8306-51d48eb52a2e"`
}

type Allocation struct {
	models.Allocation
	Links AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.ContextAPIURL))

	return Allocation{
		Allocation: model,
		Links: AllocationLinks{
			Self:        fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Employee:    fmt.Sprintf("%s/v1/employees/%s", url, model.EmployeeID),
			ExpenseType: fmt.Sprintf("%s/v1/expense-types/%s", url, model.ExpenseTypeID),
		},
	}
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`  // Data for the allocation
	Error *string     `json:"error"` // The error, if any occurred
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`       // List of allocations
	Error      *string      `json:"error"`      // The error, if any occurred
	Pagination *Pagination  `json:"pagination"` // Pagination information
}

type AllocationQueryFilter struct {
	Employee    ef_uuid.UUID          `form:"employee"`                                            // By employee
	ExpenseType ef_uuid.UUID          `form:"expenseType"`                                         // By expense type
	StatusEng   models.ApprovalStatus `form:"statusEng"`                                           // By engineer verification status
	StatusHo    models.ApprovalStatus `form:"statusHo"`                                            // By head-office approval status
	From        time.Time             `form:"from" filterField:"false" time_format:"2006-01-02"`  // Allocations dated on or after this day
	Until       time.Time             `form:"until" filterField:"false" time_format:"2006-01-02"` // Allocations dated on or before this day
	Offset      uint                  `form:"offset" filterField:"false"`                         // The offset of the first allocation returned. Defaults to 0.
	Limit       int                   `form:"limit" filterField:"false"`                          // Maximum number of allocations to return. Defaults to 50.
}

func (f AllocationQueryFilter) model() models.Allocation {
	return models.Allocation{
		EmployeeID:    f.Employee.UUID,
		ExpenseTypeID: f.ExpenseType.UUID,
		StatusEng:     f.StatusEng,
		StatusHo:      f.StatusHo,
	}
}
