package service

import (
	"context"
	"errors"
	"testing"

	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

func newMessageFixture() (*MessageService, *store.UserStore, *mockNotifier) {
	users := store.NewUserStore(testClock())
	messages := store.NewMessageStore(testClock())
	notifier := &mockNotifier{}
	return NewMessageService(messages, users, notifier, logger.NewNopLogger()), users, notifier
}

func TestMessageService_Send_RequiresFollowEitherDirection(t *testing.T) {
	svc, users, _ := newMessageFixture()
	registerUsers(t, users, "alice", "bob")
	ctx := context.Background()

	// Strangers cannot message
	if _, err := svc.Send(ctx, "alice", "bob", "hi"); !errors.Is(err, model.ErrMessagingNotAllowed) {
		t.Fatalf("expected ErrMessagingNotAllowed, got %v", err)
	}

	// Bob following alice opens the conversation for BOTH parties
	users.AddFollow("bob", "alice")

	if _, err := svc.Send(ctx, "alice", "bob", "hi"); err != nil {
		t.Errorf("followee -> follower send failed: %v", err)
	}
	if _, err := svc.Send(ctx, "bob", "alice", "hey"); err != nil {
		t.Errorf("follower -> followee send failed: %v", err)
	}
}

func TestMessageService_Send_Validation(t *testing.T) {
	svc, users, _ := newMessageFixture()
	registerUsers(t, users, "alice", "bob")
	users.AddFollow("bob", "alice")
	ctx := context.Background()

	if _, err := svc.Send(ctx, "alice", "bob", "  "); !errors.Is(err, model.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Send(ctx, "ghost", "bob", "hi"); !errors.Is(err, model.ErrSenderNotRegistered) {
		t.Errorf("expected ErrSenderNotRegistered, got %v", err)
	}
	if _, err := svc.Send(ctx, "alice", "ghost", "hi"); !errors.Is(err, model.ErrReceiverNotFound) {
		t.Errorf("expected ErrReceiverNotFound, got %v", err)
	}
}

func TestMessageService_Send_NotifiesReceiver(t *testing.T) {
	svc, users, notifier := newMessageFixture()
	registerUsers(t, users, "alice", "bob")
	users.AddFollow("alice", "bob")
	ctx := context.Background()

	if _, err := svc.Send(ctx, "alice", "bob", "hello"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.Kind != model.NotificationMessage || call.Receiver != "bob" || call.Sender != "alice" {
		t.Errorf("unexpected notification: %+v", call)
	}
}

func TestMessageService_ConversationAndInbox(t *testing.T) {
	svc, users, _ := newMessageFixture()
	registerUsers(t, users, "alice", "bob", "carol")
	users.AddFollow("bob", "alice")
	users.AddFollow("carol", "alice")
	ctx := context.Background()

	svc.Send(ctx, "alice", "bob", "one")
	svc.Send(ctx, "bob", "alice", "two")
	svc.Send(ctx, "alice", "carol", "three")

	conv := svc.Conversation(ctx, "bob", "alice")
	if len(conv) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv))
	}

	inbox := svc.Inbox(ctx, "alice")
	if len(inbox) != 2 || inbox[0] != "bob" || inbox[1] != "carol" {
		t.Errorf("expected inbox [bob carol], got %v", inbox)
	}
}

func TestMessageService_MarkSeen(t *testing.T) {
	svc, users, _ := newMessageFixture()
	registerUsers(t, users, "alice", "bob")
	users.AddFollow("bob", "alice")
	ctx := context.Background()

	m, _ := svc.Send(ctx, "bob", "alice", "hello")

	if err := svc.MarkSeen(ctx, "alice", "bob", m.ID); err != nil {
		t.Fatalf("mark seen failed: %v", err)
	}
	conv := svc.Conversation(ctx, "alice", "bob")
	if !conv[0].Seen {
		t.Error("expected message marked seen")
	}

	if err := svc.MarkSeen(ctx, "alice", "ghost", 1); !errors.Is(err, model.ErrNoConversation) {
		t.Errorf("expected ErrNoConversation, got %v", err)
	}
}
