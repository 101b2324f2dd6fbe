package models_test

import (
	"github.com/expenseflow/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExpenseTypeTrimWhitespace() {
	expenseType := suite.createTestExpenseType(models.ExpenseType{
		Name:   "\t Travel   ",
		Active: true,
	})

	assert.Equal(suite.T(), "Travel", expenseType.Name)
}

func (suite *TestSuiteStandard) TestExpenseTypeNameUnique() {
	_ = suite.createTestExpenseType(models.ExpenseType{Name: "Travel", Active: true})

	err := models.DB.Create(&models.ExpenseType{Name: "Travel"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrExpenseTypeNameNotUnique)
}

func (suite *TestSuiteStandard) TestExpenseTypeReferenceCount() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	count, err := expenseType.ReferenceCount(models.DB)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(0), count)

	_ = suite.createTestAllocation(models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
	})

	_ = suite.createTestClaim(models.Claim{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
	})

	count, err = expenseType.ReferenceCount(models.DB)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)
}
