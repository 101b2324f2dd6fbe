package v1

import (
	"net/http"

	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterNotificationRoutes registers the routes for notifications with
// the RouterGroup that is passed. All routes operate on the requester's
// own notifications only.
func RegisterNotificationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsNotificationList)
		r.GET("", GetNotifications)
		r.DELETE("", DeleteNotifications)
	}

	// Mark all notifications as read
	r.POST("/read", ReadNotifications)

	// Notification with ID
	{
		r.OPTIONS("/:id", OptionsNotificationDetail)
		r.PATCH("/:id", UpdateNotification)
		r.DELETE("/:id", DeleteNotification)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func OptionsNotificationList(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/notifications/{id} [options]
func OptionsNotificationDetail(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Notification{}, "id = ? AND user_id = ?", uri.ID.UUID, me.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsPatchDelete(c)
}

// @Summary		Get notifications
// @Description	Returns the requester's notifications, newest first
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationListResponse
// @Failure		400	{object}	NotificationListResponse
// @Router			/v1/notifications [get]
// @Param			isRead	query	bool	false	"Has the notification been read?"
// @Param			offset	query	uint	false	"The offset of the first notification returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of notifications to return. Defaults to 50."
func GetNotifications(c *gin.Context) {
	me := currentEmployee(c)

	var filter NotificationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("created_at DESC").
		Where("user_id = ?", me.ID).
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 notifications and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var notifications []models.Notification
	err := q.Find(&notifications).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &e})
		return
	}

	data := make([]Notification, 0)
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Update notification
// @Description	Updates a notification, used to mark it as read
// @Tags			Notifications
// @Accept			json
// @Produce		json
// @Success		200				{object}	NotificationResponse
// @Failure		400				{object}	NotificationResponse
// @Failure		404				{object}	NotificationResponse
// @Param			id				path		URIID					true	"ID formatted as string"
// @Param			notification	body		NotificationEditable	true	"Notification"
// @Router			/v1/notifications/{id} [patch]
func UpdateNotification(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	// Scoping to the requester makes foreign notifications indistinguishable
	// from missing ones
	var notification models.Notification
	err = models.DB.First(&notification, "id = ? AND user_id = ?", uri.ID.UUID, me.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, NotificationEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	var data NotificationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	err = models.DB.Model(&notification).Select("", updateFields...).Updates(models.Notification{IsRead: data.IsRead}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	r := newNotification(c, notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &r})
}

// @Summary		Mark all notifications as read
// @Description	Marks all of the requester's notifications as read
// @Tags			Notifications
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/v1/notifications/read [post]
func ReadNotifications(c *gin.Context) {
	me := currentEmployee(c)

	err := models.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", me.ID, false).
		Update("is_read", true).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete notification
// @Description	Deletes one of the requester's notifications
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var notification models.Notification
	err = models.DB.First(&notification, "id = ? AND user_id = ?", uri.ID.UUID, me.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&notification).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete all notifications
// @Description	Deletes all of the requester's notifications
// @Tags			Notifications
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/v1/notifications [delete]
func DeleteNotifications(c *gin.Context) {
	me := currentEmployee(c)

	err := models.DB.Where("user_id = ?", me.ID).Delete(&models.Notification{}).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
