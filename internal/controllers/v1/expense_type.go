package v1

import (
	"net/http"

	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterExpenseTypeRoutes registers the routes for expense types with
// the RouterGroup that is passed.
func RegisterExpenseTypeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseTypeList)
		r.GET("", GetExpenseTypes)
		r.POST("", CreateExpenseType)
	}

	// Expense type with ID
	{
		r.OPTIONS("/:id", OptionsExpenseTypeDetail)
		r.GET("/:id", GetExpenseType)
		r.PATCH("/:id", UpdateExpenseType)
		r.DELETE("/:id", DeleteExpenseType)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ExpenseTypes
// @Success		204
// @Router			/v1/expense-types [options]
func OptionsExpenseTypeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ExpenseTypes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/expense-types/{id} [options]
func OptionsExpenseTypeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.ExpenseType{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create expense type
// @Description	Creates a new expense type. Only administrators can manage expense types.
// @Tags			ExpenseTypes
// @Produce		json
// @Success		201			{object}	ExpenseTypeResponse
// @Failure		400			{object}	ExpenseTypeResponse
// @Failure		403			{object}	ExpenseTypeResponse
// @Param			expenseType	body		ExpenseTypeEditable	true	"Expense type"
// @Router			/v1/expense-types [post]
func CreateExpenseType(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageExpenseType, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ExpenseTypeResponse{Error: &e})
		return
	}

	var editable ExpenseTypeEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	expenseType := editable.model()

	err = models.DB.Create(&expenseType).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	data := newExpenseType(c, expenseType)
	c.JSON(http.StatusCreated, ExpenseTypeResponse{Data: &data})
}

// @Summary		Get expense types
// @Description	Returns a list of expense types
// @Tags			ExpenseTypes
// @Produce		json
// @Success		200	{object}	ExpenseTypeListResponse
// @Failure		400	{object}	ExpenseTypeListResponse
// @Router			/v1/expense-types [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			active	query	bool	false	"Is the expense type active?"
// @Param			offset	query	uint	false	"The offset of the first expense type returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of expense types to return. Defaults to 50."
func GetExpenseTypes(c *gin.Context) {
	var filter ExpenseTypeQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Name") {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 expense types and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenseTypes []models.ExpenseType
	err := q.Find(&expenseTypes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeListResponse{Error: &e})
		return
	}

	data := make([]ExpenseType, 0)
	for _, expenseType := range expenseTypes {
		data = append(data, newExpenseType(c, expenseType))
	}

	c.JSON(http.StatusOK, ExpenseTypeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense type
// @Description	Returns a specific expense type
// @Tags			ExpenseTypes
// @Produce		json
// @Success		200	{object}	ExpenseTypeResponse
// @Failure		400	{object}	ExpenseTypeResponse
// @Failure		404	{object}	ExpenseTypeResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/expense-types/{id} [get]
func GetExpenseType(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	var expenseType models.ExpenseType
	err = models.DB.First(&expenseType, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	data := newExpenseType(c, expenseType)
	c.JSON(http.StatusOK, ExpenseTypeResponse{Data: &data})
}

// @Summary		Update expense type
// @Description	Update an expense type. Only values to be updated need to be specified.
// @Tags			ExpenseTypes
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenseTypeResponse
// @Failure		400			{object}	ExpenseTypeResponse
// @Failure		403			{object}	ExpenseTypeResponse
// @Failure		404			{object}	ExpenseTypeResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			expenseType	body		ExpenseTypeEditable	true	"Expense type"
// @Router			/v1/expense-types/{id} [patch]
func UpdateExpenseType(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageExpenseType, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ExpenseTypeResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	var expenseType models.ExpenseType
	err = models.DB.First(&expenseType, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseTypeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	var data ExpenseTypeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	err = models.DB.Model(&expenseType).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseTypeResponse{Error: &e})
		return
	}

	r := newExpenseType(c, expenseType)
	c.JSON(http.StatusOK, ExpenseTypeResponse{Data: &r})
}

// @Summary		Delete expense type
// @Description	Deletes an expense type. Expense types that are still referenced by allocations or claims cannot be deleted.
// @Tags			ExpenseTypes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/expense-types/{id} [delete]
func DeleteExpenseType(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageExpenseType, uuid.Nil) {
		c.JSON(status(errForbidden), httpError{Error: errForbidden.Error()})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var expenseType models.ExpenseType
	err = models.DB.First(&expenseType, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	references, err := expenseType.ReferenceCount(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if references > 0 {
		c.JSON(status(models.ErrExpenseTypeInUse), httpError{Error: models.ErrExpenseTypeInUse.Error()})
		return
	}

	err = models.DB.Delete(&expenseType).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
