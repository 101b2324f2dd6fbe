package v1

import (
	"fmt"

	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	ef_uuid "github.com/expenseflow/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeEditable represents all user configurable parameters
type EmployeeEditable struct {
	Name               string      `json:"name" example:"Jane Mukasa"`
	Email              string      `json:"email" example:"jane@example.com"`
	Password           string      `json:"password,omitempty" example:"secret"` // Only used on creation
	Role               policy.Role `json:"role" example:"EMPLOYEE" default:"EMPLOYEE"`
	Active             *bool       `json:"active" example:"true" default:"true"` // Defaults to true when not set
	ReportingManagerID *uuid.UUID  `json:"reportingManagerId"`                   // Informational only, grants no approval rights
}

func (editable EmployeeEditable) model() models.Employee {
	// Unset means active, only an explicit false deactivates
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.Employee{
		Name:               editable.Name,
		Email:              editable.Email,
		Role:               editable.Role,
		Active:             active,
		ReportingManagerID: editable.ReportingManagerID,
	}
}

type EmployeeLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/employees/af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"`
	Claims string `json:"claims" example:"https://example.com/api/v1/claims?employee=af892e10-7e0a-4fb8-b1bc-4b6d88107ed9"`
}

type Employee struct {
	models.Employee
	Links EmployeeLinks `json:"links"`
}

func newEmployee(c *gin.Context, model models.Employee) Employee {
	url := c.GetString(string(models.ContextAPIURL))

	return Employee{
		Employee: model,
		Links: EmployeeLinks{
			Self:   fmt.Sprintf("%s/v1/employees/%s", url, model.ID),
			Claims: fmt.Sprintf("%s/v1/claims?employee=%s", url, model.ID),
		},
	}
}

type EmployeeResponse struct {
	Data  *Employee `json:"data"`  // Data for the employee
	Error *string   `json:"error"` // The error, if any occurred
}

type EmployeeListResponse struct {
	Data       []Employee  `json:"data"`       // List of employees
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type EmployeeQueryFilter struct {
	Name    string       `form:"name" filterField:"false"`    // By name
	Email   string       `form:"email" filterField:"false"`   // By email
	Role    policy.Role  `form:"role"`                        // By role
	Active  bool         `form:"active"`                      // Is the employee active?
	Manager ef_uuid.UUID `form:"manager" filterField:"false"` // By reporting manager
	Offset  uint         `form:"offset" filterField:"false"`  // The offset of the first employee returned. Defaults to 0.
	Limit   int          `form:"limit" filterField:"false"`   // Maximum number of employees to return. Defaults to 50.
}

func (f EmployeeQueryFilter) model() models.Employee {
	return models.Employee{
		Role:   f.Role,
		Active: f.Active,
	}
}
