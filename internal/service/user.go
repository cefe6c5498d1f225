package service

import (
	"context"
	"strings"

	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

// UserService implements the user directory operations: registration,
// profile reads and updates, the follow graph, and user search.
type UserService struct {
	users    *store.UserStore
	notifier Notifier
	log      *logger.Logger
}

func NewUserService(users *store.UserStore, notifier Notifier, log *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Register creates a profile for a fresh identity. A second registration of
// the same identity is an error, never a silent no-op.
func (s *UserService) Register(ctx context.Context, id model.IdentityRef, name, bio, profileImage, coverImage string) (*model.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.ErrNameRequired
	}

	profile, err := s.users.Create(id, name, bio, profileImage, coverImage)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"user": id.String(),
		"name": name,
	}).Info("Registered user")

	return profile, nil
}

// GetProfile returns the profile for the identity.
func (s *UserService) GetProfile(ctx context.Context, id model.IdentityRef) (*model.Profile, error) {
	profile, ok := s.users.Get(id)
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return profile, nil
}

// ListUsers returns every profile in registration order.
func (s *UserService) ListUsers(ctx context.Context) []*model.Profile {
	return s.users.List()
}

// Search matches the query case-insensitively against names and bios.
func (s *UserService) Search(ctx context.Context, query string) []*model.Profile {
	return s.users.Search(strings.TrimSpace(query))
}

// UpdateProfile overwrites the four mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id model.IdentityRef, req model.UpdateProfileRequest) (*model.Profile, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.ErrNameRequired
	}
	return s.users.UpdateProfile(id, req.Name, req.Bio, req.ProfileImage, req.CoverImage)
}

// Follow adds the actor -> target edge. Re-following is an idempotent
// success; the follow notification fires only on the true transition.
func (s *UserService) Follow(ctx context.Context, actor, target model.IdentityRef) error {
	if actor == target {
		return model.ErrSelfFollow
	}

	inserted, err := s.users.AddFollow(actor, target)
	if err != nil {
		return err
	}

	if inserted {
		if _, err := s.notifier.Notify(ctx, actor, target, model.NotificationFollow, "started following you"); err != nil {
			s.log.WithError(err).WithFields(map[string]interface{}{
				"actor":  actor.String(),
				"target": target.String(),
			}).Error("Failed to notify follow")
		}
	}

	return nil
}

// Unfollow removes the edge in both directions if present. Removing an
// absent edge is a no-op and never notifies.
func (s *UserService) Unfollow(ctx context.Context, actor, target model.IdentityRef) error {
	s.users.RemoveFollow(actor, target)
	return nil
}

// IsFollowing reports whether actor follows target.
func (s *UserService) IsFollowing(ctx context.Context, actor, target model.IdentityRef) bool {
	return s.users.IsFollowing(actor, target)
}

// Followers returns who follows the given user; empty for unknown users.
func (s *UserService) Followers(ctx context.Context, id model.IdentityRef) []model.IdentityRef {
	return s.users.Followers(id)
}

// Following returns who the given user follows; empty for unknown users.
func (s *UserService) Following(ctx context.Context, id model.IdentityRef) []model.IdentityRef {
	return s.users.Following(id)
}
