package v1

import (
	"errors"
	"net/http"

	"github.com/expenseflow/backend/internal/auth"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/storage"
)

type httpError struct {
	Error string `json:"error" example:"an ID specified in the query string was not a valid UUID"`
}

// Authentication and authorization errors
var (
	errNoToken             = errors.New("a bearer token is required for this endpoint")
	errAccessTokenRequired = errors.New("a refresh token cannot be used to access the API")
	errAccountInactive     = errors.New("this account has been deactivated")
	errForbidden           = errors.New("you are not allowed to perform this action")
)

// Request errors
var (
	errAmountInvalid    = errors.New("the amount could not be parsed as a decimal number")
	errDateInvalid      = errors.New("the date must be specified as YYYY-MM-DD")
	errGroupByInvalid   = errors.New("the groupBy parameter is not valid for this report")
	errLifecycleInvalid = errors.New("the lifecycle parameter is not a valid lifecycle state")
)

// status returns the appropriate HTTP status for an error
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, errForbidden):
		return http.StatusForbidden

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, errNoToken),
		errors.Is(err, errAccessTokenRequired),
		errors.Is(err, errAccountInactive):
		return http.StatusUnauthorized

	case errors.Is(err, storage.ErrUploadFailed):
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}
