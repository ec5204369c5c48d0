package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("Notification not found")
	ErrNotOwner             = errors.New("You are not allowed to access this notification")
)
