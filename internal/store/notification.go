package store

import (
	"sort"
	"sync"

	"socialite/internal/model"
)

// NotificationStore owns every notification record. Records are never
// deleted; only the Read flag changes, and only at the receiver's request.
type NotificationStore struct {
	mu    sync.RWMutex
	items map[uint64]*model.Notification
	seq   uint64
	clock Clock
}

func NewNotificationStore(clock Clock) *NotificationStore {
	return &NotificationStore{
		items: make(map[uint64]*model.Notification),
		clock: clock,
	}
}

// Append stores a fresh unread notification. Callers must have suppressed
// self-directed events already; the store does not re-check.
func (s *NotificationStore) Append(sender, receiver model.IdentityRef, kind model.NotificationKind, message string) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	n := &model.Notification{
		ID:        s.seq,
		Sender:    sender,
		Receiver:  receiver,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.clock(),
	}
	s.items[n.ID] = n
	return *n
}

// ForReceiver returns the receiver's notifications, newest first with id
// descending breaking ties.
func (s *NotificationStore) ForReceiver(receiver model.IdentityRef) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Notification{}
	for _, n := range s.items {
		if n.Receiver == receiver {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UnreadCount returns the number of unread notifications for the receiver.
func (s *NotificationStore) UnreadCount(receiver model.IdentityRef) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.items {
		if n.Receiver == receiver && !n.Read {
			count++
		}
	}
	return count
}

// MarkRead sets the Read flag. Only the receiver may mark their own record;
// re-marking an already-read notification succeeds silently.
func (s *NotificationStore) MarkRead(viewer model.IdentityRef, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok {
		return model.ErrNotificationNotFound
	}
	if n.Receiver != viewer {
		return model.ErrNotNotificationOwner
	}
	n.Read = true
	return nil
}

// Snapshot returns every notification in id order plus the sequence counter.
func (s *NotificationStore) Snapshot() ([]model.Notification, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.seq
}

// Restore replaces all state. The counter is bumped to at least the highest
// restored id.
func (s *NotificationStore) Restore(notifications []model.Notification, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[uint64]*model.Notification, len(notifications))
	s.seq = seq
	for i := range notifications {
		n := notifications[i]
		s.items[n.ID] = &n
		if n.ID > s.seq {
			s.seq = n.ID
		}
	}
}
