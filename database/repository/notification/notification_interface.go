package notificationRepo

import (
	"context"
	"errors"

	"civicdesk/models"
)

// ErrNotFound is returned when a notification id matches no document.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	// InsertMany stores a batch and returns how many documents were written.
	InsertMany(ctx context.Context, docs []models.Notification) (int, error)
	// Find returns notifications matching filter, newest first, at most limit.
	Find(ctx context.Context, filter Filter, limit int) ([]models.Notification, error)
	// FindByRecipient returns notifications addressed to a single user, newest first.
	FindByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	// CountUnread counts the user's unread notifications.
	CountUnread(ctx context.Context, userID string) (int64, error)
	// FindByID returns a single notification or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	// MarkRead sets read=true. Marking an already-read notification succeeds.
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead marks every notification of the user as read.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Delete removes a notification by id.
	Delete(ctx context.Context, id string) error
}
