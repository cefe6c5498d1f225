package model

import (
	"errors"
	"time"
)

// Profile represents a user profile. Followers and Following are kept in
// insertion order and never contain the profile's own id; the follow and
// unfollow operations are the only writers and keep the two sides symmetric.
type Profile struct {
	ID           IdentityRef   `json:"id"`
	Name         string        `json:"name"`
	Bio          string        `json:"bio"`
	ProfileImage string        `json:"profile_image"`
	CoverImage   string        `json:"cover_image"`
	Followers    []IdentityRef `json:"followers"`
	Following    []IdentityRef `json:"following"`
	CreatedAt    time.Time     `json:"created_at"`
}

// UpdateProfileRequest is the request body for profile updates. All four
// fields overwrite the stored values; follow edges and created_at are
// untouched.
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	CoverImage   string `json:"cover_image"`
}

var (
	// ErrNameRequired is returned when a profile name is empty after trimming
	ErrNameRequired = errors.New("name cannot be empty")

	// ErrUserExists is returned when an identity registers twice
	ErrUserExists = errors.New("user already registered")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrNotRegistered is returned when the acting caller has no profile
	ErrNotRegistered = errors.New("caller not registered")

	// ErrSelfFollow is returned when a user tries to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
)
