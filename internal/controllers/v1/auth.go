package v1

import (
	"net/http"
	"strings"

	"github.com/expenseflow/backend/internal/auth"
	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the routes for authentication with
// the RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/login", OptionsAuthPost)
	r.POST("/login", Login)

	r.OPTIONS("/refresh", OptionsAuthPost)
	r.POST("/refresh", Refresh)

	// Authenticated endpoints
	r.OPTIONS("/me", OptionsAuthGet)
	r.GET("/me", Authenticate(), GetMe)

	r.OPTIONS("/password", OptionsAuthPatch)
	r.PATCH("/password", Authenticate(), ChangePassword)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Authentication
// @Success		204
// @Router			/v1/auth/login [options]
func OptionsAuthPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Authentication
// @Success		204
// @Router			/v1/auth/me [options]
func OptionsAuthGet(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsAuthPatch returns the allowed HTTP verbs for the password endpoint.
func OptionsAuthPatch(c *gin.Context) {
	c.Header("allow", "OPTIONS, PATCH")
	c.Status(http.StatusNoContent)
}

// @Summary		Log in
// @Description	Authenticates an employee by email and password and issues a token pair
// @Tags			Authentication
// @Produce		json
// @Success		200			{object}	TokenResponse
// @Failure		400			{object}	TokenResponse
// @Failure		401			{object}	TokenResponse
// @Param			credentials	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var request LoginRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = models.DB.First(&employee, "email = ?", strings.ToLower(strings.TrimSpace(request.Email))).Error
	if err != nil {
		// Do not leak whether the account exists
		e := auth.ErrInvalidCredentials.Error()
		c.JSON(http.StatusUnauthorized, TokenResponse{Error: &e})
		return
	}

	if !employee.Active {
		e := errAccountInactive.Error()
		c.JSON(status(errAccountInactive), TokenResponse{Error: &e})
		return
	}

	err = auth.CheckPassword(employee.PasswordHash, request.Password)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	issueTokenResponse(c, employee)
}

// @Summary		Refresh the session
// @Description	Exchanges a refresh token for a new token pair
// @Tags			Authentication
// @Produce		json
// @Success		200		{object}	TokenResponse
// @Failure		400		{object}	TokenResponse
// @Failure		401		{object}	TokenResponse
// @Param			token	body		RefreshRequest	true	"Refresh token"
// @Router			/v1/auth/refresh [post]
func Refresh(c *gin.Context) {
	var request RefreshRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	claims, err := auth.Parse(request.RefreshToken)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	if !claims.Refresh {
		e := auth.ErrTokenInvalid.Error()
		c.JSON(status(auth.ErrTokenInvalid), TokenResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = models.DB.First(&employee, "id = ?", claims.EmployeeID).Error
	if err != nil {
		e := auth.ErrTokenInvalid.Error()
		c.JSON(status(auth.ErrTokenInvalid), TokenResponse{Error: &e})
		return
	}

	if !employee.Active {
		e := errAccountInactive.Error()
		c.JSON(status(errAccountInactive), TokenResponse{Error: &e})
		return
	}

	issueTokenResponse(c, employee)
}

func issueTokenResponse(c *gin.Context, employee models.Employee) {
	pair, err := auth.IssueTokens(employee.ID, employee.Role)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, TokenResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Data: &pair})
}

// @Summary		Current employee
// @Description	Returns the employee record of the acting principal
// @Tags			Authentication
// @Produce		json
// @Success		200	{object}	EmployeeResponse
// @Failure		401	{object}	httpError
// @Router			/v1/auth/me [get]
func GetMe(c *gin.Context) {
	employee := currentEmployee(c)
	data := newEmployee(c, employee)
	c.JSON(http.StatusOK, EmployeeResponse{Data: &data})
}

// @Summary		Change password
// @Description	Verifies the current password and stores a new one
// @Tags			Authentication
// @Produce		json
// @Success		204
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			passwords	body		PasswordChangeRequest	true	"Passwords"
// @Router			/v1/auth/password [patch]
func ChangePassword(c *gin.Context) {
	employee := currentEmployee(c)

	var request PasswordChangeRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = auth.CheckPassword(employee.PasswordHash, request.CurrentPassword)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(request.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	err = models.DB.Model(&employee).Update("password_hash", hash).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
