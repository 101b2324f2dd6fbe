package v1

import (
	"fmt"
	"net/http"

	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAllocationList)
		r.GET("", GetAllocations)
		r.POST("", CreateAllocation)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.GET("/:id", GetAllocation)
		r.PATCH("/:id", UpdateAllocation)
		r.DELETE("/:id", DeleteAllocation)
	}

	// Approval stages
	{
		r.POST("/:id/verify", VerifyAllocation)
		r.POST("/:id/approve", ApproveAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Allocation{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create allocation
// @Description	Creates a new allocation for an employee. Only administrators can manage allocations.
// @Tags			Allocations
// @Produce		json
// @Success		201			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [post]
func CreateAllocation(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageAllocations, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), AllocationResponse{Error: &e})
		return
	}

	var editable AllocationEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	allocation := editable.model()

	err = models.DB.Create(&allocation).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	models.Notify(allocation.EmployeeID, fmt.Sprintf("An allocation of %s has been created for you", allocation.Amount))

	data := newAllocation(c, allocation)
	c.JSON(http.StatusCreated, AllocationResponse{Data: &data})
}

// @Summary		Get allocations
// @Description	Returns a list of allocations. Employees without elevated roles only see their own allocations.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			employee	query	string	false	"Filter by employee ID"
// @Param			expenseType	query	string	false	"Filter by expense type ID"
// @Param			statusEng	query	string	false	"Filter by engineer verification status"
// @Param			statusHo	query	string	false	"Filter by head-office approval status"
// @Param			from		query	string	false	"Allocations dated on or after this day, formatted as 2006-01-02"
// @Param			until		query	string	false	"Allocations dated on or before this day, formatted as 2006-01-02"
// @Param			offset		query	uint	false	"The offset of the first allocation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of allocations to return. Defaults to 50."
func GetAllocations(c *gin.Context) {
	me := currentEmployee(c)

	var filter AllocationQueryFilter

	// The date fields need parsing, everything else binds into strings
	err := c.ShouldBind(&filter)
	if err != nil {
		e := errDateInvalid.Error()
		c.JSON(status(errDateInvalid), AllocationListResponse{Error: &e})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("allocation_date DESC, created_at DESC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "From") {
		q = q.Where("allocation_date >= ?", filter.From)
	}

	if slices.Contains(setFields, "Until") {
		// Include the whole day
		q = q.Where("allocation_date < ?", filter.Until.AddDate(0, 0, 1))
	}

	// Without elevated rights, the scope is always the requester's own rows
	if !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		q = q.Where("employee_id = ?", me.ID)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 allocations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var allocations []models.Allocation
	err = q.Find(&allocations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	data := make([]Allocation, 0)
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, AllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [get]
func GetAllocation(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var allocation models.Allocation
	err = models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	if allocation.EmployeeID != me.ID && !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), AllocationResponse{Error: &e})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Update an allocation. Only values to be updated need to be specified. Only administrators can manage allocations.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations/{id} [patch]
func UpdateAllocation(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageAllocations, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), AllocationResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var allocation models.Allocation
	err = models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, AllocationEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var data AllocationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	// Updates run against a partial struct, so the create-time checks
	// have to be repeated here on the incoming values.
	if slices.Contains(updateFields, "Amount") && !data.Amount.IsPositive() {
		e := models.ErrAmountNotPositive.Error()
		c.JSON(status(models.ErrAmountNotPositive), AllocationResponse{Error: &e})
		return
	}

	if slices.Contains(updateFields, "ExpenseTypeID") {
		err = models.CheckExpenseType(models.DB, data.ExpenseTypeID)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AllocationResponse{Error: &e})
			return
		}
	}

	err = models.DB.Model(&allocation).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	r := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &r})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation. Only administrators can manage allocations.
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [delete]
func DeleteAllocation(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageAllocations, uuid.Nil) {
		c.JSON(status(errForbidden), httpError{Error: errForbidden.Error()})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var allocation models.Allocation
	err = models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&allocation).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Verify allocation
// @Description	Records the engineer verification outcome for an allocation. Re-verification overwrites the previous outcome.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Param			id			path		URIID			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/allocations/{id}/verify [post]
func VerifyAllocation(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionVerifyAllocation, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), AllocationResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var decision DecisionRequest
	err = httputil.BindData(c, &decision)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var allocation models.Allocation
	err = models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	err = allocation.VerifyEng(models.DB, *decision.Approved, decision.Notes)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	countTransition("allocation", "engineer", *decision.Approved)
	models.Notify(allocation.EmployeeID, fmt.Sprintf("Your allocation of %s has been marked %s by engineering", allocation.Amount, allocation.StatusEng))

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Approve allocation
// @Description	Records the head-office outcome for an allocation. The allocation must have passed engineer verification first.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Param			id			path		URIID			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/allocations/{id}/approve [post]
func ApproveAllocation(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionApproveAllocation, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), AllocationResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var decision DecisionRequest
	err = httputil.BindData(c, &decision)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var allocation models.Allocation
	err = models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	err = allocation.ApproveHo(models.DB, *decision.Approved, decision.Notes)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	countTransition("allocation", "head-office", *decision.Approved)
	models.Notify(allocation.EmployeeID, fmt.Sprintf("Your allocation of %s has been marked %s by head office", allocation.Amount, allocation.StatusHo))

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}
