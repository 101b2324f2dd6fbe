package v1

import (
	"fmt"

	"github.com/expenseflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// NotificationEditable represents all user configurable parameters
type NotificationEditable struct {
	IsRead bool `json:"isRead" example:"true"`
}

type NotificationLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/notifications/7e7ee54f-8a36-4dd7-954e-54b8a8b7a961"`
}

type Notification struct {
	models.Notification
	Links NotificationLinks `json:"links"`
}

func newNotification(c *gin.Context, model models.Notification) Notification {
	url := c.GetString(string(models.ContextAPIURL))

	return Notification{
		Notification: model,
		Links: NotificationLinks{
			Self: fmt.Sprintf("%s/v1/notifications/%s", url, model.ID),
		},
	}
}

type NotificationResponse struct {
	Data  *Notification `json:"data"`  // Data for the notification
	Error *string       `json:"error"` // The error, if any occurred
}

type NotificationListResponse struct {
	Data       []Notification `json:"data"`       // List of notifications
	Error      *string        `json:"error"`      // The error, if any occurred
	Pagination *Pagination    `json:"pagination"` // Pagination information
}

type NotificationQueryFilter struct {
	IsRead bool `form:"isRead"`                     // Has the notification been read?
	Offset uint `form:"offset" filterField:"false"` // The offset of the first notification returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of notifications to return. Defaults to 50.
}

func (f NotificationQueryFilter) model() models.Notification {
	return models.Notification{
		IsRead: f.IsRead,
	}
}
