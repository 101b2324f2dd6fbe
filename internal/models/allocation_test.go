package models_test

import (
	"time"

	"github.com/expenseflow/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// testAllocation creates an active employee and expense type and returns
// a persisted allocation referencing them.
func (suite *TestSuiteStandard) testAllocation() models.Allocation {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	return suite.createTestAllocation(models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
	})
}

func (suite *TestSuiteStandard) TestAllocationDefaults() {
	allocation := suite.testAllocation()

	assert.Equal(suite.T(), models.StatusPending, allocation.StatusEng)
	assert.Equal(suite.T(), models.StatusPending, allocation.StatusHo)
	assert.False(suite.T(), allocation.AllocationDate.IsZero())
	assert.Equal(suite.T(), time.UTC, allocation.AllocationDate.Location())
}

func (suite *TestSuiteStandard) TestAllocationAmountMustBePositive() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	err := models.DB.Create(&models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
		Amount:        decimal.NewFromFloat(-10),
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestAllocationEmployeeMustBeActive() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	err := models.DB.Model(&employee).Update("active", false).Error
	assert.Nil(suite.T(), err)

	err = models.DB.Create(&models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
		Amount:        decimal.NewFromFloat(10),
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrEmployeeInactive)
}

func (suite *TestSuiteStandard) TestAllocationExpenseTypeMustBeActive() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: false})

	err := models.DB.Create(&models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
		Amount:        decimal.NewFromFloat(10),
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrExpenseTypeInactive)
}

func (suite *TestSuiteStandard) TestAllocationVerifyEng() {
	allocation := suite.testAllocation()

	err := allocation.VerifyEng(models.DB, true, "checked the invoice")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StatusApproved, allocation.StatusEng)
	assert.Equal(suite.T(), "checked the invoice", allocation.EngNotes)

	// Re-verification overwrites the previous outcome
	err = allocation.VerifyEng(models.DB, false, "invoice does not match")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StatusRejected, allocation.StatusEng)
	assert.Equal(suite.T(), "invoice does not match", allocation.EngNotes)
}

func (suite *TestSuiteStandard) TestAllocationApproveHoRequiresVerification() {
	allocation := suite.testAllocation()

	err := allocation.ApproveHo(models.DB, true, "")
	assert.ErrorIs(suite.T(), err, models.ErrEngineerApprovalRequired)
}

func (suite *TestSuiteStandard) TestAllocationApproveHoAfterEngRejection() {
	allocation := suite.testAllocation()

	err := allocation.VerifyEng(models.DB, false, "")
	assert.Nil(suite.T(), err)

	err = allocation.ApproveHo(models.DB, true, "")
	assert.ErrorIs(suite.T(), err, models.ErrEngineerApprovalRequired)
}

func (suite *TestSuiteStandard) TestAllocationApproveHo() {
	allocation := suite.testAllocation()

	err := allocation.VerifyEng(models.DB, true, "")
	assert.Nil(suite.T(), err)

	err = allocation.ApproveHo(models.DB, true, "budget available")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StatusApproved, allocation.StatusHo)
	assert.Equal(suite.T(), "budget available", allocation.HoNotes)
}

func (suite *TestSuiteStandard) TestAllocationApproveHoReject() {
	allocation := suite.testAllocation()

	err := allocation.VerifyEng(models.DB, true, "")
	assert.Nil(suite.T(), err)

	err = allocation.ApproveHo(models.DB, false, "over budget")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StatusRejected, allocation.StatusHo)
	assert.Equal(suite.T(), "over budget", allocation.HoNotes)

	// Head office may revise its decision
	err = allocation.ApproveHo(models.DB, true, "budget freed up")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StatusApproved, allocation.StatusHo)
}

func (suite *TestSuiteStandard) TestAllocationTrimWhitespace() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	expenseType := suite.createTestExpenseType(models.ExpenseType{Active: true})

	allocation := suite.createTestAllocation(models.Allocation{
		EmployeeID:    employee.ID,
		ExpenseTypeID: expenseType.ID,
		Notes:         "  some notes  ",
		Remarks:       "\tremarks ",
	})

	assert.Equal(suite.T(), "some notes", allocation.Notes)
	assert.Equal(suite.T(), "remarks", allocation.Remarks)
}
