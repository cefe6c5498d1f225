package store

import (
	"strings"
	"sync"

	"socialite/internal/model"
)

// CredentialStore owns boundary-layer login records, keyed by lowercase
// username. The core never reads it; only the auth service does.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]*model.Credential
	clock Clock
}

func NewCredentialStore(clock Clock) *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]*model.Credential),
		clock: clock,
	}
}

// Create inserts a credential. Usernames are unique case-insensitively.
func (s *CredentialStore) Create(username string, userID model.IdentityRef, passwordHash string) error {
	key := strings.ToLower(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.creds[key]; ok {
		return model.ErrUsernameTaken
	}
	s.creds[key] = &model.Credential{
		Username:     username,
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock(),
	}
	return nil
}

// Lookup returns the credential for the username, case-insensitively.
func (s *CredentialStore) Lookup(username string) (*model.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	cc := *c
	return &cc, true
}

// Delete removes a credential. Used only to roll back a half-finished
// registration.
func (s *CredentialStore) Delete(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.creds, strings.ToLower(username))
}

// Snapshot returns every credential for archival.
func (s *CredentialStore) Snapshot() []model.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Credential, 0, len(s.creds))
	for _, c := range s.creds {
		out = append(out, *c)
	}
	return out
}

// Restore replaces all state.
func (s *CredentialStore) Restore(creds []model.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = make(map[string]*model.Credential, len(creds))
	for i := range creds {
		c := creds[i]
		s.creds[strings.ToLower(c.Username)] = &c
	}
}
