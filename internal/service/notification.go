package service

import (
	"context"

	"socialite/internal/model"
	"socialite/internal/queue"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

// Notifier is the capability the other services use to fan out cross-user
// events. Callers must suppress self-directed events before invoking; the
// notification center never records sender == receiver.
type Notifier interface {
	Notify(ctx context.Context, sender, receiver model.IdentityRef, kind model.NotificationKind, message string) (model.Notification, error)
}

// NotificationService owns notification records and drives external delivery.
// The in-memory record is written first; the queue event only follows a
// stored record, never precedes one.
type NotificationService struct {
	notifs    *store.NotificationStore
	publisher queue.Publisher
	log       *logger.Logger
}

func NewNotificationService(notifs *store.NotificationStore, publisher queue.Publisher, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notifs:    notifs,
		publisher: publisher,
		log:       log,
	}
}

// Notify stores an unread record and publishes a delivery event.
// A publish failure is logged, not surfaced - the record already exists and
// delivery is at-least-once via the pending list anyway.
func (s *NotificationService) Notify(ctx context.Context, sender, receiver model.IdentityRef, kind model.NotificationKind, message string) (model.Notification, error) {
	n := s.notifs.Append(sender, receiver, kind, message)

	if s.publisher != nil {
		event := queue.NewNotificationCreatedEvent(n.ID, sender.String(), receiver.String(), string(kind), message)
		if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
			s.log.WithError(err).WithFields(map[string]interface{}{
				"notification": n.ID,
				"receiver":     receiver.String(),
			}).Error("Failed to publish notification event")
		}
	}

	return n, nil
}

// List returns the receiver's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, receiver model.IdentityRef) []model.Notification {
	return s.notifs.ForReceiver(receiver)
}

// UnreadCount returns the receiver's unread badge count.
func (s *NotificationService) UnreadCount(ctx context.Context, receiver model.IdentityRef) int {
	return s.notifs.UnreadCount(receiver)
}

// MarkRead marks one notification read. Receiver-only; idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, viewer model.IdentityRef, id uint64) error {
	return s.notifs.MarkRead(viewer, id)
}
