package worker

import (
	"context"
	"fmt"

	"socialite/internal/queue"
	"socialite/pkg/logger"
)

// PushSender delivers a notification to an external push gateway. It is
// satisfied by push.WebhookClient and by test fakes.
type PushSender interface {
	Send(ctx context.Context, receiver, title, body string, data map[string]interface{}) error
}

// Handler processes notification events from the queue. The notification
// record already exists by the time an event arrives; the handler's only job
// is external delivery.
type Handler struct {
	pusher PushSender // Can be nil if no gateway configured
	log    *logger.Logger
}

// NewHandler creates a new event handler.
func NewHandler(pusher PushSender, log *logger.Logger) *Handler {
	return &Handler{
		pusher: pusher,
		log:    log,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.NotificationEvent) error {
	switch event.Type {
	case queue.EventNotificationCreated:
		return h.handleNotificationCreated(ctx, event)
	default:
		h.log.WithField("type", event.Type).Warn("unknown event type")
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handleNotificationCreated pushes a stored notification out to the gateway.
func (h *Handler) handleNotificationCreated(ctx context.Context, event queue.NotificationEvent) error {
	if h.pusher == nil {
		h.log.Debug("no push gateway configured, skipping delivery")
		return nil
	}

	data := map[string]interface{}{
		"notification_id": event.NotificationID,
		"kind":            event.Kind,
		"sender":          event.Sender,
	}

	err := h.pusher.Send(ctx, event.Receiver, titleForKind(event.Kind), event.Message, data)
	if err != nil {
		return fmt.Errorf("push notification %d: %w", event.NotificationID, err)
	}

	h.log.WithFields(map[string]interface{}{
		"notification_id": event.NotificationID,
		"receiver":        event.Receiver,
		"kind":            event.Kind,
	}).Info("notification delivered")
	return nil
}

func titleForKind(kind string) string {
	switch kind {
	case "like":
		return "New like"
	case "comment":
		return "New comment"
	case "follow":
		return "New follower"
	case "repost":
		return "New repost"
	case "message":
		return "New message"
	default:
		return "Notification"
	}
}
