package repository

import (
	"context"

	"carpool/internal/domain"
)

// NotificationList is one fetch of the signed-in user's notifications.
type NotificationList struct {
	Items       []domain.Notification `json:"results"`
	UnreadCount int                   `json:"unread_count"`
}

// NotificationRepository defines the remote notification operations.
type NotificationRepository interface {
	// List retrieves the most recent notifications.
	List(ctx context.Context) (*NotificationList, error)

	// MarkRead marks the given notifications read in one call.
	// Marking an already-read notification is not an error.
	MarkRead(ctx context.Context, ids []string) error

	// MarkAllRead marks every notification read.
	MarkAllRead(ctx context.Context) error
}
