package v1

import (
	"net/http"

	"github.com/expenseflow/backend/internal/auth"
	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterEmployeeRoutes registers the routes for employees with
// the RouterGroup that is passed.
func RegisterEmployeeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsEmployeeList)
		r.GET("", GetEmployees)
		r.POST("", CreateEmployee)
	}

	// Employee with ID
	{
		r.OPTIONS("/:id", OptionsEmployeeDetail)
		r.GET("/:id", GetEmployee)
		r.PATCH("/:id", UpdateEmployee)
		r.DELETE("/:id", DeleteEmployee)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Employees
// @Success		204
// @Router			/v1/employees [options]
func OptionsEmployeeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Employees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/employees/{id} [options]
func OptionsEmployeeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Employee{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create employee
// @Description	Creates a new employee. Only administrators can create employees.
// @Tags			Employees
// @Produce		json
// @Success		201			{object}	EmployeeResponse
// @Failure		400			{object}	EmployeeResponse
// @Failure		403			{object}	EmployeeResponse
// @Param			employee	body		EmployeeEditable	true	"Employee"
// @Router			/v1/employees [post]
func CreateEmployee(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageEmployees, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), EmployeeResponse{Error: &e})
		return
	}

	var editable EmployeeEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	// Default after binding so that explicit zero values in the body do
	// not clobber the default
	if editable.Role == "" {
		editable.Role = policy.RoleEmployee
	}

	employee := editable.model()

	employee.PasswordHash, err = auth.HashPassword(editable.Password)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, EmployeeResponse{Error: &e})
		return
	}

	err = models.DB.Create(&employee).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	data := newEmployee(c, employee)
	c.JSON(http.StatusCreated, EmployeeResponse{Data: &data})
}

// @Summary		Get employees
// @Description	Returns a list of employees
// @Tags			Employees
// @Produce		json
// @Success		200	{object}	EmployeeListResponse
// @Failure		400	{object}	EmployeeListResponse
// @Failure		403	{object}	EmployeeListResponse
// @Router			/v1/employees [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			email	query	string	false	"Filter by email"
// @Param			role	query	string	false	"Filter by role"
// @Param			active	query	bool	false	"Is the employee active?"
// @Param			manager	query	string	false	"Filter by reporting manager ID"
// @Param			offset	query	uint	false	"The offset of the first employee returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of employees to return. Defaults to 50."
func GetEmployees(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), EmployeeListResponse{Error: &e})
		return
	}

	var filter EmployeeQueryFilter
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

	if slices.Contains(setFields, "Email") {
		q = q.Where("email LIKE ?", "%"+filter.Email+"%")
	}

	if slices.Contains(setFields, "Manager") {
		q = q.Where("reporting_manager_id = ?", filter.Manager.UUID)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 employees and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var employees []models.Employee
	err := q.Find(&employees).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeListResponse{Error: &e})
		return
	}

	data := make([]Employee, 0)
	for _, employee := range employees {
		data = append(data, newEmployee(c, employee))
	}

	c.JSON(http.StatusOK, EmployeeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get employee
// @Description	Returns a specific employee. Employees can always read their own record.
// @Tags			Employees
// @Produce		json
// @Success		200	{object}	EmployeeResponse
// @Failure		400	{object}	EmployeeResponse
// @Failure		403	{object}	EmployeeResponse
// @Failure		404	{object}	EmployeeResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/employees/{id} [get]
func GetEmployee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	me := currentEmployee(c)
	if uri.ID.UUID != me.ID && !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), EmployeeResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = models.DB.First(&employee, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	data := newEmployee(c, employee)
	c.JSON(http.StatusOK, EmployeeResponse{Data: &data})
}

// @Summary		Update employee
// @Description	Update an employee. Administrators can update all fields, employees only their own name.
// @Tags			Employees
// @Accept			json
// @Produce		json
// @Success		200			{object}	EmployeeResponse
// @Failure		400			{object}	EmployeeResponse
// @Failure		403			{object}	EmployeeResponse
// @Failure		404			{object}	EmployeeResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			employee	body		EmployeeEditable	true	"Employee"
// @Router			/v1/employees/{id} [patch]
func UpdateEmployee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = models.DB.First(&employee, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, EmployeeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	// The password hash is never updated through this endpoint
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == "Password" })

	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageEmployees, uuid.Nil) {
		// Employees may only rename themselves
		selfEdit := employee.ID == me.ID &&
			!slices.ContainsFunc(updateFields, func(f any) bool { return f != "Name" })
		if !selfEdit {
			e := errForbidden.Error()
			c.JSON(status(errForbidden), EmployeeResponse{Error: &e})
			return
		}
	}

	var data EmployeeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	// Gorm update hooks only see the partial update struct, so the cycle
	// check needs the full record here
	if slices.ContainsFunc(updateFields, func(f any) bool { return f == "ReportingManagerID" }) {
		candidate := employee
		candidate.ReportingManagerID = data.ReportingManagerID
		err = candidate.CheckManagerChain(models.DB)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), EmployeeResponse{Error: &e})
			return
		}
	}

	err = models.DB.Model(&employee).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	r := newEmployee(c, employee)
	c.JSON(http.StatusOK, EmployeeResponse{Data: &r})
}

// @Summary		Deactivate employee
// @Description	Deactivates an employee. Employee records are never hard-deleted since claims and allocations reference them.
// @Tags			Employees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/employees/{id} [delete]
func DeleteEmployee(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionManageEmployees, uuid.Nil) {
		c.JSON(status(errForbidden), httpError{Error: errForbidden.Error()})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var employee models.Employee
	err = models.DB.First(&employee, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Model(&employee).Update("active", false).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
