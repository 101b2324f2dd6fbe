package models_test

import (
	"github.com/expenseflow/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestNotify() {
	employee := suite.createTestEmployee(models.Employee{Active: true})

	models.Notify(employee.ID, "Your claim has been verified")

	var notifications []models.Notification
	err := models.DB.Where("user_id = ?", employee.ID).Find(&notifications).Error
	assert.Nil(suite.T(), err)

	assert.Len(suite.T(), notifications, 1)
	assert.Equal(suite.T(), "Your claim has been verified", notifications[0].Message)
	assert.False(suite.T(), notifications[0].IsRead)
}

func (suite *TestSuiteStandard) TestNotifyFailureDoesNotPanic() {
	employee := suite.createTestEmployee(models.Employee{Active: true})
	suite.CloseDB()

	// The write fails on the closed database, which is only logged
	models.Notify(employee.ID, "this is lost")
}
