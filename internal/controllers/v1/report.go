package v1

import (
	"net/http"

	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterReportRoutes registers the routes for reports with the
// RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/claims", OptionsReport)
	r.GET("/claims", GetClaimReport)

	r.OPTIONS("/allocations", OptionsReport)
	r.GET("/allocations", GetAllocationReport)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/claims [options]
func OptionsReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// ReportRow is one aggregated group of a report.
type ReportRow struct {
	GroupKey string          `json:"groupKey" example:"2024-03"` // The value the rows were grouped by
	Count    int64           `json:"count" example:"17"`         // Number of rows in the group
	Total    decimal.Decimal `json:"total" example:"4250.00"`    // Sum of the amounts in the group
}

type ReportResponse struct {
	Data  []ReportRow `json:"data"`  // The report rows
	Error *string     `json:"error"` // The error, if any occurred
}

// report runs the grouped aggregation. groupExpr must be one of the
// fixed expressions selected by the handlers, never user input.
func report(q *gorm.DB, groupExpr string) ([]ReportRow, error) {
	rows := make([]ReportRow, 0)

	err := q.
		Select(groupExpr + " AS group_key, COUNT(*) AS count, SUM(amount) AS total").
		Group("group_key").
		Order("group_key ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// @Summary		Claim report
// @Description	Returns claim counts and totals grouped by the requested dimension. Employees without elevated roles only see their own claims.
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	ReportResponse
// @Failure		400		{object}	ReportResponse
// @Param			groupBy	query		string	true	"One of status, employee, expenseType, month"
// @Router			/v1/reports/claims [get]
func GetClaimReport(c *gin.Context) {
	me := currentEmployee(c)

	var groupExpr string
	switch c.Query("groupBy") {
	case "status":
		groupExpr = "status"
	case "employee":
		groupExpr = "employee_id"
	case "expenseType":
		groupExpr = "expense_type_id"
	case "month":
		groupExpr = "strftime('%Y-%m', created_at)"
	default:
		e := errGroupByInvalid.Error()
		c.JSON(status(errGroupByInvalid), ReportResponse{Error: &e})
		return
	}

	q := models.DB.Model(&models.Claim{})
	if !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		q = q.Where("employee_id = ?", me.ID)
	}

	rows, err := report(q, groupExpr)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReportResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ReportResponse{Data: rows})
}

// @Summary		Allocation report
// @Description	Returns allocation counts and totals grouped by the requested dimension. Employees without elevated roles only see their own allocations.
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	ReportResponse
// @Failure		400		{object}	ReportResponse
// @Param			groupBy	query		string	true	"One of statusEng, statusHo, employee, expenseType, month"
// @Router			/v1/reports/allocations [get]
func GetAllocationReport(c *gin.Context) {
	me := currentEmployee(c)

	var groupExpr string
	switch c.Query("groupBy") {
	case "statusEng":
		groupExpr = "status_eng"
	case "statusHo":
		groupExpr = "status_ho"
	case "employee":
		groupExpr = "employee_id"
	case "expenseType":
		groupExpr = "expense_type_id"
	case "month":
		groupExpr = "strftime('%Y-%m', allocation_date)"
	default:
		e := errGroupByInvalid.Error()
		c.JSON(status(errGroupByInvalid), ReportResponse{Error: &e})
		return
	}

	q := models.DB.Model(&models.Allocation{})
	if !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		q = q.Where("employee_id = ?", me.ID)
	}

	rows, err := report(q, groupExpr)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReportResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ReportResponse{Data: rows})
}
