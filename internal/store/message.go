package store

import (
	"sort"
	"sync"

	"socialite/internal/model"
)

// convoKey is the canonical unordered pair: the lexicographically smaller
// identity always sits in a. Both participants resolve to the same slot no
// matter who calls.
type convoKey struct {
	a, b model.IdentityRef
}

func newConvoKey(x, y model.IdentityRef) convoKey {
	if y.Less(x) {
		x, y = y, x
	}
	return convoKey{a: x, b: y}
}

// MessageStore owns pairwise conversations. Messages are append-only and
// ordered by arrival; only the Seen flag is ever mutated.
type MessageStore struct {
	mu            sync.RWMutex
	conversations map[convoKey][]*model.Message
	seq           uint64
	clock         Clock
}

func NewMessageStore(clock Clock) *MessageStore {
	return &MessageStore{
		conversations: make(map[convoKey][]*model.Message),
		clock:         clock,
	}
}

// Append adds a message to the canonical conversation for (from, to) and
// returns it. Policy checks happen in the service layer.
func (s *MessageStore) Append(from, to model.IdentityRef, content string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	m := &model.Message{
		ID:        s.seq,
		From:      from,
		To:        to,
		Content:   content,
		CreatedAt: s.clock(),
	}
	key := newConvoKey(from, to)
	s.conversations[key] = append(s.conversations[key], m)
	return *m
}

// Conversation returns the messages between a and b in chronological order.
// Either party sees the identical list; an unknown pair yields an empty one.
func (s *MessageStore) Conversation(a, b model.IdentityRef) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.conversations[newConvoKey(a, b)]
	out := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MarkSeen flags every message from peer to viewer with id <= lastID as seen.
// Messages outside that bound or direction are untouched.
func (s *MessageStore) MarkSeen(viewer, peer model.IdentityRef, lastID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.conversations[newConvoKey(viewer, peer)]
	if !ok {
		return model.ErrNoConversation
	}
	for _, m := range msgs {
		if m.To == viewer && m.From == peer && m.ID <= lastID {
			m.Seen = true
		}
	}
	return nil
}

// Peers returns the distinct identities the viewer has a conversation with.
func (s *MessageStore) Peers(viewer model.IdentityRef) []model.IdentityRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.IdentityRef
	for key := range s.conversations {
		switch viewer {
		case key.a:
			out = append(out, key.b)
		case key.b:
			out = append(out, key.a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Snapshot returns every message in id order plus the sequence counter.
func (s *MessageStore) Snapshot() ([]model.Message, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Message
	for _, msgs := range s.conversations {
		for _, m := range msgs {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.seq
}

// Restore replaces all state, regrouping messages under their canonical keys.
// The counter is bumped to at least the highest restored id.
func (s *MessageStore) Restore(messages []model.Message, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[convoKey][]*model.Message)
	s.seq = seq
	sorted := append([]model.Message{}, messages...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for i := range sorted {
		m := sorted[i]
		key := newConvoKey(m.From, m.To)
		s.conversations[key] = append(s.conversations[key], &m)
		if m.ID > s.seq {
			s.seq = m.ID
		}
	}
}
