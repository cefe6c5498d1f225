package model

import (
	"errors"
	"time"
)

// NotificationKind classifies the cross-user event that produced a
// notification.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
	NotificationRepost  NotificationKind = "repost"
	NotificationMessage NotificationKind = "message"
)

// Notification is a single fan-out record. Exactly one is created per
// triggering cross-user event; self-directed actions never produce one.
// Only the Read flag is ever mutated, and only by the receiver.
type Notification struct {
	ID        uint64           `json:"id"`
	Sender    IdentityRef      `json:"sender"`
	Receiver  IdentityRef      `json:"receiver"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

var (
	// ErrNotificationNotFound is returned when a notification id is unknown
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrNotNotificationOwner is returned when a non-receiver marks a
	// notification read
	ErrNotNotificationOwner = errors.New("only the receiver may mark this notification read")
)
