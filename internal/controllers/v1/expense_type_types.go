package v1

import (
	"fmt"

	"github.com/expenseflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// ExpenseTypeEditable represents all user configurable parameters
type ExpenseTypeEditable struct {
	Name   string `json:"name" example:"Conference" default:""` // Name of the expense type
	Active *bool  `json:"active" example:"true" default:"true"` // Can new allocations and claims reference this type? Defaults to true when not set.
}

func (editable ExpenseTypeEditable) model() models.ExpenseType {
	// Unset means active, only an explicit false deactivates
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.ExpenseType{
		Name:   editable.Name,
		Active: active,
	}
}

type ExpenseTypeLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/expense-types/d1615b7a-ad32-4708-b2e9-74dfcd8a1646"`
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?expenseType=d1615b7a-ad32-4708-b2e9-74dfcd8a1646"`
	Claims      string `json:"claims" example:"https://example.com/api/v1/claims?expenseType=d1615b7a-ad32-4708-b2e9-74dfcd8a1646"`
}

type ExpenseType struct {
	models.ExpenseType
	Links ExpenseTypeLinks `json:"links"`
}

func newExpenseType(c *gin.Context, model models.ExpenseType) ExpenseType {
	url := c.GetString(string(models.ContextAPIURL))

	return ExpenseType{
		ExpenseType: model,
		Links: ExpenseTypeLinks{
			Self:        fmt.Sprintf("%s/v1/expense-types/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?expenseType=%s", url, model.ID),
			Claims:      fmt.Sprintf("%s/v1/claims?expenseType=%s", url, model.ID),
		},
	}
}

type ExpenseTypeResponse struct {
	Data  *ExpenseType `json:"data"`  // Data for the expense type
	Error *string      `json:"error"` // The error, if any occurred
}

type ExpenseTypeListResponse struct {
	Data       []ExpenseType `json:"data"`       // List of expense types
	Error      *string       `json:"error"`      // The error, if any occurred
	Pagination *Pagination   `json:"pagination"` // Pagination information
}

type ExpenseTypeQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Active bool   `form:"active"`                     // Is the expense type active?
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first expense type returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of expense types to return. Defaults to 50.
}

func (f ExpenseTypeQueryFilter) model() models.ExpenseType {
	return models.ExpenseType{
		Active: f.Active,
	}
}
