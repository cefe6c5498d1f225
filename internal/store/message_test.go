package store

import (
	"errors"
	"testing"
	"time"

	"socialite/internal/model"
)

func newTestMessageStore() *MessageStore {
	return NewMessageStore(steppingClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))
}

func TestMessageStore_ConversationSharedBothDirections(t *testing.T) {
	s := newTestMessageStore()

	s.Append("alice", "bob", "hi")
	s.Append("bob", "alice", "hey")
	s.Append("alice", "bob", "how are you")

	fromAlice := s.Conversation("alice", "bob")
	fromBob := s.Conversation("bob", "alice")

	if len(fromAlice) != 3 || len(fromBob) != 3 {
		t.Fatalf("expected both views to see 3 messages, got %d and %d", len(fromAlice), len(fromBob))
	}
	for i := range fromAlice {
		if fromAlice[i].ID != fromBob[i].ID {
			t.Errorf("position %d: views disagree (%d vs %d)", i, fromAlice[i].ID, fromBob[i].ID)
		}
	}

	// Chronological order
	if fromAlice[0].Content != "hi" || fromAlice[2].Content != "how are you" {
		t.Errorf("expected chronological order, got %v", fromAlice)
	}
}

func TestMessageStore_ConversationEmptyForStrangers(t *testing.T) {
	s := newTestMessageStore()
	if got := s.Conversation("alice", "ghost"); len(got) != 0 {
		t.Errorf("expected empty conversation, got %v", got)
	}
}

func TestMessageStore_MarkSeen_BoundedAndDirectional(t *testing.T) {
	s := newTestMessageStore()
	m1 := s.Append("bob", "alice", "one")   // id 1
	m2 := s.Append("bob", "alice", "two")   // id 2
	m3 := s.Append("alice", "bob", "reply") // id 3
	m4 := s.Append("bob", "alice", "three") // id 4

	if err := s.MarkSeen("alice", "bob", m2.ID); err != nil {
		t.Fatalf("mark seen failed: %v", err)
	}

	msgs := s.Conversation("alice", "bob")
	seen := map[uint64]bool{}
	for _, m := range msgs {
		seen[m.ID] = m.Seen
	}

	if !seen[m1.ID] || !seen[m2.ID] {
		t.Error("expected messages up to last_id marked seen")
	}
	if seen[m4.ID] {
		t.Error("message beyond last_id must stay unseen")
	}
	// Alice's own outgoing message is never flagged by her mark
	if seen[m3.ID] {
		t.Error("viewer's own message must not be marked seen")
	}
}

func TestMessageStore_MarkSeen_NoConversation(t *testing.T) {
	s := newTestMessageStore()
	if err := s.MarkSeen("alice", "ghost", 10); !errors.Is(err, model.ErrNoConversation) {
		t.Errorf("expected ErrNoConversation, got %v", err)
	}
}

func TestMessageStore_Peers(t *testing.T) {
	s := newTestMessageStore()
	s.Append("alice", "bob", "hi")
	s.Append("carol", "alice", "hello")
	s.Append("bob", "dave", "yo")

	got := s.Peers("alice")
	if len(got) != 2 || got[0] != "bob" || got[1] != "carol" {
		t.Errorf("expected sorted peers [bob carol], got %v", got)
	}

	if got := s.Peers("ghost"); len(got) != 0 {
		t.Errorf("expected no peers for unknown user, got %v", got)
	}
}

func TestMessageStore_SnapshotRestore(t *testing.T) {
	s := newTestMessageStore()
	s.Append("alice", "bob", "hi")
	m := s.Append("bob", "alice", "hey")
	s.MarkSeen("alice", "bob", m.ID)

	msgs, seq := s.Snapshot()
	if len(msgs) != 2 || seq != 2 {
		t.Fatalf("expected 2 messages seq 2, got %d messages seq %d", len(msgs), seq)
	}

	restored := newTestMessageStore()
	restored.Restore(msgs, 0)

	conv := restored.Conversation("bob", "alice")
	if len(conv) != 2 {
		t.Fatalf("expected restored conversation of 2, got %d", len(conv))
	}
	if !conv[1].Seen {
		t.Error("expected seen flag to survive restore")
	}

	// Counter bumped past the highest restored id
	next := restored.Append("alice", "bob", "again")
	if next.ID <= m.ID {
		t.Errorf("expected fresh id above %d, got %d", m.ID, next.ID)
	}
}
