package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/expenseflow/backend/internal/controllers/v1"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/test"
)

func (suite *TestSuiteStandard) TestOptionsExpenseType() {
	_, header := suite.employee()

	r := test.Request(suite.T(), http.MethodOptions, "/v1/expense-types", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))

	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})
	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateExpenseType() {
	_, header := suite.admin()

	r := test.Request(suite.T(), http.MethodPost, "/v1/expense-types", v1.ExpenseTypeEditable{
		Name: "Conference",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ExpenseTypeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Conference", response.Data.Name)
	suite.Assert().True(response.Data.Active, "New expense types should default to active")
}

func (suite *TestSuiteStandard) TestCreateExpenseTypeExplicitInactive() {
	_, header := suite.admin()

	// A marshalled editable struct carries the active flag explicitly,
	// only an explicit false may deactivate
	r := test.Request(suite.T(), http.MethodPost, "/v1/expense-types", v1.ExpenseTypeEditable{
		Name:   "Legacy",
		Active: boolPtr(false),
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ExpenseTypeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().False(response.Data.Active)
}

func (suite *TestSuiteStandard) TestCreateExpenseTypeForbidden() {
	for _, role := range []func() (models.Employee, map[string]string){suite.employee, suite.engineer, suite.approver} {
		_, header := role()

		r := test.Request(suite.T(), http.MethodPost, "/v1/expense-types", v1.ExpenseTypeEditable{
			Name: "Nope",
		}, header)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
	}
}

func (suite *TestSuiteStandard) TestCreateExpenseTypeDuplicateName() {
	_, header := suite.admin()
	suite.createTestExpenseType(models.ExpenseType{Name: "Travel", Active: true})

	r := test.Request(suite.T(), http.MethodPost, "/v1/expense-types", v1.ExpenseTypeEditable{
		Name: "Travel",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetExpenseTypes() {
	_, header := suite.employee()
	suite.createTestExpenseType(models.ExpenseType{Name: "Travel", Active: true})
	suite.createTestExpenseType(models.ExpenseType{Name: "Hardware", Active: false})

	// Reads are open to every authenticated account
	r := test.Request(suite.T(), http.MethodGet, "/v1/expense-types", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseTypeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 2)

	r = test.Request(suite.T(), http.MethodGet, "/v1/expense-types?active=true", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 1)
	suite.Assert().Equal("Travel", response.Data[0].Name)

	r = test.Request(suite.T(), http.MethodGet, "/v1/expense-types?name=Hard", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 1)
	suite.Assert().Equal("Hardware", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestGetExpenseType() {
	_, header := suite.employee()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseTypeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(expenseType.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetExpenseTypeNotFound() {
	_, header := suite.employee()

	r := test.Request(suite.T(), http.MethodGet, "/v1/expense-types/5b8dcc7f-4e4f-4b8f-9f1d-3408cd5ecbbd", "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateExpenseType() {
	_, header := suite.admin()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Name: "Travle", Active: true})

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), map[string]any{
		"name":   "Travel",
		"active": false,
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dbExpenseType models.ExpenseType
	suite.Require().Nil(models.DB.First(&dbExpenseType, "id = ?", expenseType.ID).Error)
	suite.Assert().Equal("Travel", dbExpenseType.Name)
	suite.Assert().False(dbExpenseType.Active)
}

func (suite *TestSuiteStandard) TestUpdateExpenseTypeForbidden() {
	_, header := suite.engineer()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), map[string]string{
		"name": "Nope",
	}, header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestDeleteExpenseType() {
	_, header := suite.admin()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	suite.Assert().ErrorIs(models.DB.First(&models.ExpenseType{}, "id = ?", expenseType.ID).Error, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteExpenseTypeReferenced() {
	admin, header := suite.admin()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})
	suite.createTestAllocation(models.Allocation{EmployeeID: admin.ID, ExpenseTypeID: expenseType.ID})

	// Referenced expense types must stay, deactivate them instead
	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	suite.Assert().Nil(models.DB.First(&models.ExpenseType{}, "id = ?", expenseType.ID).Error)
}

func (suite *TestSuiteStandard) TestDeleteExpenseTypeForbidden() {
	_, header := suite.employee()
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/v1/expense-types/%s", expenseType.ID), "", header)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}
