package models

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notification records a lifecycle event for an employee to read later.
type Notification struct {
	DefaultModel
	UserID  uuid.UUID `json:"userId"`
	User    Employee  `json:"-"`
	Message string    `json:"message" example:"Your claim has been verified"`
	IsRead  bool      `json:"isRead" example:"false"`
}

// Notify appends a notification for the user.
//
// Notifications are written best-effort: the approval transition that
// triggered the notification is the authoritative event and must not be
// rolled back when the notification write fails. Failures are logged.
func Notify(userID uuid.UUID, message string) {
	err := DB.Create(&Notification{UserID: userID, Message: message}).Error
	if err != nil {
		log.Error().
			Err(err).
			Str("user-id", userID.String()).
			Str("message", message).
			Msg("could not write notification")
	}
}
