package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted notification record. The JSON field names match
// the wire shape the frontend already consumes.
type Notification struct {
	ID        uuid.UUID `json:"_id"`
	UserID    string    `json:"user"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationRepository is the durable store for notification records.
// Durability is the repository's job; the live push path is best-effort only.
type NotificationRepository interface {
	// Insert persists a new unread notification and returns it.
	Insert(ctx context.Context, userID, message string) (*Notification, error)

	// ListByUser returns all notifications for a user, most recent first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)

	// MarkRead flags a notification as read. Returns ErrNotificationNotFound
	// if the record does not exist or is not owned by userID.
	MarkRead(ctx context.Context, userID string, id uuid.UUID) (*Notification, error)
}

// Dispatcher pushes an already-persisted notification to the user's live
// connection, if any. Callers must not depend on delivery for correctness.
type Dispatcher interface {
	Push(userID string, notification *Notification)
}
