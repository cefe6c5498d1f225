package service

import (
	"context"
	"strings"

	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

// MessageService implements direct messaging gated by the follow graph:
// a conversation is allowed when either side follows the other.
type MessageService struct {
	messages *store.MessageStore
	users    *store.UserStore
	notifier Notifier
	log      *logger.Logger
}

func NewMessageService(messages *store.MessageStore, users *store.UserStore, notifier Notifier, log *logger.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// CanMessage reports whether a and b may message each other. A single follow
// in either direction opens the conversation both ways.
func (s *MessageService) CanMessage(ctx context.Context, a, b model.IdentityRef) bool {
	return s.users.IsFollowing(a, b) || s.users.IsFollowing(b, a)
}

// Send validates both parties and the follow policy, appends to the
// canonical conversation, and notifies the receiver.
func (s *MessageService) Send(ctx context.Context, from, to model.IdentityRef, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ErrEmptyMessage
	}
	if !s.users.Exists(from) {
		return nil, model.ErrSenderNotRegistered
	}
	if !s.users.Exists(to) {
		return nil, model.ErrReceiverNotFound
	}
	if !s.CanMessage(ctx, from, to) {
		return nil, model.ErrMessagingNotAllowed
	}

	msg := s.messages.Append(from, to, content)

	if _, err := s.notifier.Notify(ctx, from, to, model.NotificationMessage, "sent you a message"); err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"from": from.String(),
			"to":   to.String(),
		}).Error("Failed to notify message")
	}

	return &msg, nil
}

// Conversation returns the chronological message list between a and b -
// identical for both parties.
func (s *MessageService) Conversation(ctx context.Context, a, b model.IdentityRef) []model.Message {
	return s.messages.Conversation(a, b)
}

// MarkSeen flags messages from peer to viewer up to lastID as seen.
func (s *MessageService) MarkSeen(ctx context.Context, viewer, peer model.IdentityRef, lastID uint64) error {
	return s.messages.MarkSeen(viewer, peer, lastID)
}

// Inbox returns the distinct peers the viewer has a conversation with.
func (s *MessageService) Inbox(ctx context.Context, viewer model.IdentityRef) []model.IdentityRef {
	return s.messages.Peers(viewer)
}
