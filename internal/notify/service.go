// Package notify is the application service for notification records: the
// single in-process capability the rest of the backend uses to originate a
// notification, plus the read/update operations the REST backstop exposes.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
)

type Service struct {
	repo       domain.NotificationRepository
	dispatcher domain.Dispatcher
}

func NewService(repo domain.NotificationRepository, dispatcher domain.Dispatcher) *Service {
	return &Service{repo: repo, dispatcher: dispatcher}
}

// CreateNotification persists a notification and then pushes it to the user's
// live connection if one is open. The record is durable before the push is
// attempted, so a failed push only delays visibility until the next poll.
func (s *Service) CreateNotification(ctx context.Context, userID, message string) (*domain.Notification, error) {
	if message == "" {
		return nil, fmt.Errorf("notification message must not be empty")
	}

	notification, err := s.repo.Insert(ctx, userID, message)
	if err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	s.dispatcher.Push(userID, notification)

	return notification, nil
}

// List returns the user's notifications, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead flags one notification as read. Idempotent; returns
// domain.ErrNotificationNotFound when the record is absent or owned by
// someone else.
func (s *Service) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, userID, id)
}
