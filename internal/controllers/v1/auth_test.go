package v1_test

import (
	"net/http"

	v1 "github.com/expenseflow/backend/internal/controllers/v1"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestLogin() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)
	assert.NotEmpty(suite.T(), response.Data.AccessToken)
	assert.NotEmpty(suite.T(), response.Data.RefreshToken)
}

func (suite *TestSuiteStandard) TestLoginEmailCaseInsensitive() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    " Jane@Example.COM ",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestLoginWrongPassword() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestLoginUnknownEmail() {
	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret",
	})

	// Unknown accounts are indistinguishable from wrong passwords
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestLoginInactive() {
	employee := suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")
	err := models.DB.Model(&employee).Update("active", false).Error
	require.Nil(suite.T(), err)

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestRefresh() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var login v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &login)

	r = test.Request(suite.T(), http.MethodPost, "/v1/auth/refresh", v1.RefreshRequest{
		RefreshToken: login.Data.RefreshToken,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var refreshed v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &refreshed)
	require.NotNil(suite.T(), refreshed.Data)
	assert.NotEmpty(suite.T(), refreshed.Data.AccessToken)
}

func (suite *TestSuiteStandard) TestRefreshWithAccessToken() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var login v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &login)

	// An access token cannot be exchanged
	r = test.Request(suite.T(), http.MethodPost, "/v1/auth/refresh", v1.RefreshRequest{
		RefreshToken: login.Data.AccessToken,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestGetMe() {
	employee, token := suite.employee()

	r := test.Request(suite.T(), http.MethodGet, "/v1/auth/me", "", token)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EmployeeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), employee.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetMeWithoutToken() {
	r := test.Request(suite.T(), http.MethodGet, "/v1/auth/me", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAccessWithRefreshToken() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "secret")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	var login v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &login)

	// A refresh token is not an access token
	r = test.Request(suite.T(), http.MethodGet, "/v1/auth/me", "", test.BearerHeader(login.Data.RefreshToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAccessDeactivatedAccount() {
	employee, token := suite.employee()

	err := models.DB.Model(&employee).Update("active", false).Error
	require.Nil(suite.T(), err)

	// A valid token no longer grants access once the account is deactivated
	r := test.Request(suite.T(), http.MethodGet, "/v1/auth/me", "", token)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestChangePassword() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "old password")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "old password",
	})
	var login v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &login)
	header := test.BearerHeader(login.Data.AccessToken)

	r = test.Request(suite.T(), http.MethodPatch, "/v1/auth/password", v1.PasswordChangeRequest{
		CurrentPassword: "old password",
		NewPassword:     "new password",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The old password no longer works
	r = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "old password",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	// The new one does
	r = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "new password",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestChangePasswordWrongCurrent() {
	_ = suite.createTestEmployee(models.Employee{Email: "jane@example.com", Active: true}, "old password")

	r := test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "old password",
	})
	var login v1.TokenResponse
	test.DecodeResponse(suite.T(), &r, &login)

	r = test.Request(suite.T(), http.MethodPatch, "/v1/auth/password", v1.PasswordChangeRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new password",
	}, test.BearerHeader(login.Data.AccessToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}
