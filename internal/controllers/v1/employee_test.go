package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/expenseflow/backend/internal/controllers/v1"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/expenseflow/backend/internal/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestOptionsEmployee() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodOptions, "/v1/employees", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))

	employee, _ := suite.employee()
	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("/v1/employees/%s", employee.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateEmployee() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodPost, "/v1/employees", v1.EmployeeEditable{
		Name:     "Jane Mukasa",
		Email:    "jane@example.com",
		Password: "secret",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.EmployeeResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("Jane Mukasa", response.Data.Name)
	suite.Assert().Equal(policy.RoleEmployee, response.Data.Role, "Role should default to EMPLOYEE")
	suite.Assert().True(response.Data.Active, "New accounts should be active")

	// The new account can log in with the configured password
	r = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestCreateEmployeeExplicitFields() {
	_, header := suite.admin()

	// A marshalled editable struct carries every field, including the
	// explicit zero values. Those must not clobber the defaults.
	r := test.Request(suite.T(), http.MethodPost, "/v1/employees", v1.EmployeeEditable{
		Name:     "Default Role",
		Email:    "default-role@example.com",
		Password: "secret",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.EmployeeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(policy.RoleEmployee, response.Data.Role)
	suite.Assert().True(response.Data.Active)

	// An explicit role and an explicit inactive flag are respected
	r = test.Request(suite.T(), http.MethodPost, "/v1/employees", v1.EmployeeEditable{
		Name:   "Dormant Engineer",
		Email:  "dormant@example.com",
		Role:   policy.RoleEngineer,
		Active: boolPtr(false),
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(policy.RoleEngineer, response.Data.Role)
	suite.Assert().False(response.Data.Active)
}

func (suite *TestSuiteStandard) TestCreateEmployeeInvalidRole() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodPost, "/v1/employees", map[string]string{
		"name":  "Broken Role",
		"email": "broken-role@example.com",
		"role":  "SUPERVISOR",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateEmployeeForbidden() {
	_, header := suite.employee()

	r := test.Request(suite.T(), http.MethodPost, "/v1/employees", v1.EmployeeEditable{
		Name:  "Intruder",
		Email: "intruder@example.com",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestCreateEmployeeDuplicateEmail() {
	_, header := suite.admin()
	suite.createTestEmployee(models.Employee{Email: "taken@example.com", Active: true}, "")

	r := test.Request(suite.T(), http.MethodPost, "/v1/employees", v1.EmployeeEditable{
		Name:  "Copy Cat",
		Email: "taken@example.com",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetEmployees() {
	_, header := suite.engineer()
	suite.createTestEmployee(models.Employee{Name: "Amara", Active: true}, "")
	suite.createTestEmployee(models.Employee{Name: "Brigitta", Active: true}, "")

	r := test.Request(suite.T(), http.MethodGet, "/v1/employees", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EmployeeListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// The engineer itself plus the two created employees
	suite.Assert().Len(response.Data, 3)
	suite.Assert().Equal(int64(3), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestGetEmployeesForbidden() {
	_, header := suite.employee()

	r := test.Request(suite.T(), http.MethodGet, "/v1/employees", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestGetEmployeesFilter() {
	_, header := suite.admin()

	suite.createTestEmployee(models.Employee{Name: "Filter Match", Role: policy.RoleEngineer, Active: true}, "")
	suite.createTestEmployee(models.Employee{Name: "Filter Miss", Active: true}, "")

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"By role", "role=ENGINEER", 1},
		{"By name", "name=Filter", 2},
		{"By name, no match", "name=Nonexistent", 0},
		{"Limit", "limit=1", 1},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/employees?%s", tt.query), "", header)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.EmployeeListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestGetEmployeeSelf() {
	employee, header := suite.employee()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/employees/%s", employee.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EmployeeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(employee.ID, response.Data.ID)
	suite.Assert().Contains(response.Data.Links.Self, fmt.Sprintf("/v1/employees/%s", employee.ID))
}

func (suite *TestSuiteStandard) TestGetEmployeeForeign() {
	_, header := suite.employee()
	other, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/employees/%s", other.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)

	// Administrators can read any record
	_, adminHeader := suite.admin()
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/employees/%s", other.ID), "", adminHeader)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestGetEmployeeNotFound() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodGet, "/v1/employees/3e44b4a4-7e2a-4a53-a108-8f6b3f5ac6b7", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetEmployeeInvalidID() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodGet, "/v1/employees/not-a-uuid", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeSelfRename() {
	employee, header := suite.employee()

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", employee.ID), map[string]string{
		"name": "New Name",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dbEmployee models.Employee
	suite.Require().Nil(models.DB.First(&dbEmployee, "id = ?", employee.ID).Error)
	suite.Assert().Equal("New Name", dbEmployee.Name)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeSelfRoleForbidden() {
	employee, header := suite.employee()

	// Renaming is allowed, changing anything else is not
	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", employee.ID), map[string]string{
		"name": "Sneaky",
		"role": "ADMIN",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeForeignForbidden() {
	_, header := suite.employee()
	other, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", other.ID), map[string]string{
		"name": "Hijacked",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeAdmin() {
	_, header := suite.admin()
	employee, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", employee.ID), map[string]any{
		"role":   "ENGINEER",
		"active": false,
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dbEmployee models.Employee
	suite.Require().Nil(models.DB.First(&dbEmployee, "id = ?", employee.ID).Error)
	suite.Assert().Equal(policy.RoleEngineer, dbEmployee.Role)
	suite.Assert().False(dbEmployee.Active)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeIgnoresPassword() {
	_, header := suite.admin()
	employee := suite.createTestEmployee(models.Employee{Active: true}, "original")

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", employee.ID), map[string]string{
		"password": "hijacked",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dbEmployee models.Employee
	suite.Require().Nil(models.DB.First(&dbEmployee, "id = ?", employee.ID).Error)
	suite.Assert().Equal(employee.PasswordHash, dbEmployee.PasswordHash, "PATCH must never touch the password hash")
}

func (suite *TestSuiteStandard) TestUpdateEmployeeManagerCycle() {
	_, header := suite.admin()

	alice := suite.createTestEmployee(models.Employee{Name: "Alice", Active: true}, "")
	bob := suite.createTestEmployee(models.Employee{Name: "Bob", Active: true, ReportingManagerID: &alice.ID}, "")

	// Closing the chain into a loop has to be rejected
	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", alice.ID), map[string]string{
		"reportingManagerId": bob.ID.String(),
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateEmployeeManagerSelf() {
	_, header := suite.admin()
	employee, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/employees/%s", employee.ID), map[string]string{
		"reportingManagerId": employee.ID.String(),
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteEmployeeDeactivates() {
	_, header := suite.admin()
	employee, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/employees/%s", employee.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The record survives deactivated since claims reference it
	var dbEmployee models.Employee
	suite.Require().Nil(models.DB.First(&dbEmployee, "id = ?", employee.ID).Error)
	suite.Assert().False(dbEmployee.Active)
}

func (suite *TestSuiteStandard) TestDeleteEmployeeForbidden() {
	_, header := suite.engineer()
	employee, _ := suite.employee()

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/employees/%s", employee.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestDeleteEmployeeNotFound() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodDelete, "/v1/employees/2c6cd9ac-5a4c-4a3f-8c1a-14ba6f0e6baf", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
