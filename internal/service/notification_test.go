package service

import (
	"context"
	"errors"
	"testing"

	"socialite/internal/model"
	"socialite/internal/queue"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

// mockPublisher records published events and can be told to fail.
type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.NotificationEvent) (string, error)
	events    []queue.NotificationEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.NotificationEvent) (string, error) {
	m.events = append(m.events, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

func TestNotificationService_Notify_StoresThenPublishes(t *testing.T) {
	notifs := store.NewNotificationStore(testClock())
	pub := &mockPublisher{}
	svc := NewNotificationService(notifs, pub, logger.NewNopLogger())
	ctx := context.Background()

	n, err := svc.Notify(ctx, "bob", "alice", model.NotificationLike, "liked your post")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if n.Read {
		t.Error("fresh notification must be unread")
	}

	if got := svc.UnreadCount(ctx, "alice"); got != 1 {
		t.Errorf("expected 1 unread, got %d", got)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != queue.EventNotificationCreated || ev.NotificationID != n.ID || ev.Receiver != "alice" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestNotificationService_Notify_PublishFailureKeepsRecord(t *testing.T) {
	notifs := store.NewNotificationStore(testClock())
	pub := &mockPublisher{
		publishFn: func(ctx context.Context, stream string, event queue.NotificationEvent) (string, error) {
			return "", errors.New("redis down")
		},
	}
	svc := NewNotificationService(notifs, pub, logger.NewNopLogger())
	ctx := context.Background()

	if _, err := svc.Notify(ctx, "bob", "alice", model.NotificationLike, "liked your post"); err != nil {
		t.Fatalf("notify must succeed despite publish failure, got %v", err)
	}
	if got := len(svc.List(ctx, "alice")); got != 1 {
		t.Errorf("expected record kept, got %d", got)
	}
}

func TestNotificationService_NilPublisher(t *testing.T) {
	notifs := store.NewNotificationStore(testClock())
	svc := NewNotificationService(notifs, nil, logger.NewNopLogger())

	if _, err := svc.Notify(context.Background(), "bob", "alice", model.NotificationFollow, "started following you"); err != nil {
		t.Fatalf("notify without a queue must still store, got %v", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	notifs := store.NewNotificationStore(testClock())
	svc := NewNotificationService(notifs, nil, logger.NewNopLogger())
	ctx := context.Background()

	n, _ := svc.Notify(ctx, "bob", "alice", model.NotificationLike, "liked your post")

	if err := svc.MarkRead(ctx, "bob", n.ID); !errors.Is(err, model.ErrNotNotificationOwner) {
		t.Errorf("expected ErrNotNotificationOwner, got %v", err)
	}
	if err := svc.MarkRead(ctx, "alice", n.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if got := svc.UnreadCount(ctx, "alice"); got != 0 {
		t.Errorf("expected 0 unread, got %d", got)
	}
}
