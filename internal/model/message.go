package model

import (
	"errors"
	"time"
)

// Message is one direct message inside a pairwise conversation. Conversations
// are keyed by the canonical unordered pair of participants, so both sides
// read and write the same sequence. Only the Seen flag is ever mutated.
type Message struct {
	ID        uint64      `json:"id"`
	From      IdentityRef `json:"from"`
	To        IdentityRef `json:"to"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Seen      bool        `json:"seen"`
}

// SendMessageRequest is the request body for sending a direct message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// MarkSeenRequest is the request body for marking a conversation seen up to
// and including the given message id.
type MarkSeenRequest struct {
	LastID uint64 `json:"last_id"`
}

var (
	// ErrEmptyMessage is returned when a message is empty after trimming
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrSenderNotRegistered is returned when the sender has no profile
	ErrSenderNotRegistered = errors.New("sender not registered")

	// ErrReceiverNotFound is returned when the receiver has no profile
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrMessagingNotAllowed is returned when neither side follows the other
	ErrMessagingNotAllowed = errors.New("messaging requires a follow in either direction")

	// ErrNoConversation is returned when no conversation exists for the pair
	ErrNoConversation = errors.New("no conversation")
)
