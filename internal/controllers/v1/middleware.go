package v1

import (
	"strings"

	"github.com/expenseflow/backend/internal/auth"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// Files is the file-storage collaborator used for receipt uploads. It is
// set by the router during startup.
var Files storage.Storage

const principalKey = "expenseflow:principal"

// Authenticate resolves the bearer token into the acting employee.
//
// The employee record is re-fetched on every request: a deactivated
// account loses access immediately, even with a still-valid token.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, errNoToken)
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Refresh tokens can only be exchanged, not used for API access
		if claims.Refresh {
			abortWithError(c, errAccessTokenRequired)
			return
		}

		var employee models.Employee
		err = models.DB.First(&employee, "id = ?", claims.EmployeeID).Error
		if err != nil {
			abortWithError(c, auth.ErrTokenInvalid)
			return
		}

		if !employee.Active {
			abortWithError(c, errAccountInactive)
			return
		}

		c.Set(principalKey, employee)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(status(err), httpError{
		Error: err.Error(),
	})
}

// currentEmployee returns the employee resolved by Authenticate.
func currentEmployee(c *gin.Context) models.Employee {
	return c.MustGet(principalKey).(models.Employee)
}
