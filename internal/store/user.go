package store

import (
	"strings"
	"sync"

	"socialite/internal/model"
)

// UserStore owns every profile and the follow graph. Follow edges touch two
// profiles at once, so both sides of an edge are always updated under the
// same lock and can never be observed half-written.
type UserStore struct {
	mu       sync.RWMutex
	profiles map[model.IdentityRef]*model.Profile
	order    []model.IdentityRef
	clock    Clock
}

func NewUserStore(clock Clock) *UserStore {
	return &UserStore{
		profiles: make(map[model.IdentityRef]*model.Profile),
		clock:    clock,
	}
}

// Create inserts a fresh profile with empty follow sets. Registering the same
// identity twice is an error, not a no-op.
func (s *UserStore) Create(id model.IdentityRef, name, bio, profileImage, coverImage string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; ok {
		return nil, model.ErrUserExists
	}

	p := &model.Profile{
		ID:           id,
		Name:         name,
		Bio:          bio,
		ProfileImage: profileImage,
		CoverImage:   coverImage,
		Followers:    []model.IdentityRef{},
		Following:    []model.IdentityRef{},
		CreatedAt:    s.clock(),
	}
	s.profiles[id] = p
	s.order = append(s.order, id)

	return cloneProfile(p), nil
}

// Get returns a copy of the profile, or false if the identity is unknown.
func (s *UserStore) Get(id model.IdentityRef) (*model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return cloneProfile(p), true
}

// Exists reports whether the identity has a profile.
func (s *UserStore) Exists(id model.IdentityRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.profiles[id]
	return ok
}

// List returns all profiles in registration order.
func (s *UserStore) List() []*model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneProfile(s.profiles[id]))
	}
	return out
}

// UpdateProfile overwrites the four mutable fields. Follow edges and
// created_at are untouched.
func (s *UserStore) UpdateProfile(id model.IdentityRef, name, bio, profileImage, coverImage string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	p.Name = name
	p.Bio = bio
	p.ProfileImage = profileImage
	p.CoverImage = coverImage

	return cloneProfile(p), nil
}

// AddFollow inserts the edge actor -> target on both profiles as one step.
// Returns false with no error when the edge already exists, mirroring an
// INSERT ... ON CONFLICT DO NOTHING: callers notify only on a true insert.
func (s *UserStore) AddFollow(actor, target model.IdentityRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tp, ok := s.profiles[target]
	if !ok {
		return false, model.ErrUserNotFound
	}
	ap, ok := s.profiles[actor]
	if !ok {
		return false, model.ErrNotRegistered
	}

	if containsIdentity(ap.Following, target) {
		return false, nil
	}

	ap.Following = append(ap.Following, target)
	tp.Followers = append(tp.Followers, actor)
	return true, nil
}

// RemoveFollow deletes the edge from both profiles if present. Removing an
// absent edge, or naming an unknown user, is a silent no-op.
func (s *UserStore) RemoveFollow(actor, target model.IdentityRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ap, ok := s.profiles[actor]; ok {
		ap.Following = removeIdentity(ap.Following, target)
	}
	if tp, ok := s.profiles[target]; ok {
		tp.Followers = removeIdentity(tp.Followers, actor)
	}
}

// IsFollowing reports whether actor -> target exists. Unknown users are
// simply not following anyone.
func (s *UserStore) IsFollowing(actor, target model.IdentityRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[actor]
	if !ok {
		return false
	}
	return containsIdentity(p.Following, target)
}

// Followers returns the follower ids in edge-insertion order, empty for
// unknown users.
func (s *UserStore) Followers(id model.IdentityRef) []model.IdentityRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return []model.IdentityRef{}
	}
	return append([]model.IdentityRef{}, p.Followers...)
}

// Following returns the followee ids in edge-insertion order, empty for
// unknown users.
func (s *UserStore) Following(id model.IdentityRef) []model.IdentityRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return []model.IdentityRef{}
	}
	return append([]model.IdentityRef{}, p.Following...)
}

// Search matches the query case-insensitively against name or bio, in stable
// registration order.
func (s *UserStore) Search(query string) []*model.Profile {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Profile
	for _, id := range s.order {
		p := s.profiles[id]
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Bio), q) {
			out = append(out, cloneProfile(p))
		}
	}
	return out
}

// Snapshot returns every profile for archival.
func (s *UserStore) Snapshot() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *cloneProfile(s.profiles[id]))
	}
	return out
}

// Restore replaces all state with the given profiles, in slice order.
func (s *UserStore) Restore(profiles []model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[model.IdentityRef]*model.Profile, len(profiles))
	s.order = s.order[:0]
	for i := range profiles {
		p := cloneProfile(&profiles[i])
		s.profiles[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

func cloneProfile(p *model.Profile) *model.Profile {
	c := *p
	c.Followers = append([]model.IdentityRef{}, p.Followers...)
	c.Following = append([]model.IdentityRef{}, p.Following...)
	return &c
}

func containsIdentity(ids []model.IdentityRef, id model.IdentityRef) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeIdentity(ids []model.IdentityRef, id model.IdentityRef) []model.IdentityRef {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
