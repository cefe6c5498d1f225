package worker

import (
	"context"
	"errors"
	"testing"

	"socialite/internal/queue"
	"socialite/pkg/logger"
)

// mockPushSender records sends and can be told to fail.
type mockPushSender struct {
	sendFn func(ctx context.Context, receiver, title, body string, data map[string]interface{}) error
	sends  []sentPush
}

type sentPush struct {
	Receiver string
	Title    string
	Body     string
	Data     map[string]interface{}
}

func (m *mockPushSender) Send(ctx context.Context, receiver, title, body string, data map[string]interface{}) error {
	m.sends = append(m.sends, sentPush{Receiver: receiver, Title: title, Body: body, Data: data})
	if m.sendFn != nil {
		return m.sendFn(ctx, receiver, title, body, data)
	}
	return nil
}

func TestHandler_NotificationCreated_Pushes(t *testing.T) {
	sender := &mockPushSender{}
	h := NewHandler(sender, logger.NewNopLogger())

	event := queue.NewNotificationCreatedEvent(7, "bob", "alice", "like", "liked your post")
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(sender.sends) != 1 {
		t.Fatalf("expected 1 push, got %d", len(sender.sends))
	}
	push := sender.sends[0]
	if push.Receiver != "alice" {
		t.Errorf("expected receiver alice, got %s", push.Receiver)
	}
	if push.Title != "New like" || push.Body != "liked your post" {
		t.Errorf("unexpected push content: %+v", push)
	}
	if push.Data["notification_id"] != uint64(7) {
		t.Errorf("expected notification_id 7 in data, got %v", push.Data["notification_id"])
	}
}

func TestHandler_NotificationCreated_NilPusher(t *testing.T) {
	h := NewHandler(nil, logger.NewNopLogger())

	event := queue.NewNotificationCreatedEvent(1, "bob", "alice", "follow", "started following you")
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Errorf("nil pusher must be a no-op, got %v", err)
	}
}

func TestHandler_NotificationCreated_PushFailureSurfaces(t *testing.T) {
	sender := &mockPushSender{
		sendFn: func(ctx context.Context, receiver, title, body string, data map[string]interface{}) error {
			return errors.New("gateway down")
		},
	}
	h := NewHandler(sender, logger.NewNopLogger())

	event := queue.NewNotificationCreatedEvent(2, "bob", "alice", "message", "sent you a message")
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Error("expected delivery error to surface for retry accounting")
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	h := NewHandler(&mockPushSender{}, logger.NewNopLogger())

	if err := h.HandleEvent(context.Background(), queue.NotificationEvent{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown event type")
	}
}

func TestTitleForKind(t *testing.T) {
	cases := map[string]string{
		"like":    "New like",
		"comment": "New comment",
		"follow":  "New follower",
		"repost":  "New repost",
		"message": "New message",
		"other":   "Notification",
	}
	for kind, want := range cases {
		if got := titleForKind(kind); got != want {
			t.Errorf("titleForKind(%q) = %q, want %q", kind, got, want)
		}
	}
}
