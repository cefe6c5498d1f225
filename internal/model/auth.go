package model

import (
	"errors"
	"time"
)

// Credential is a boundary-layer login record. The core never sees passwords;
// it only receives the IdentityRef the credential resolves to.
type Credential struct {
	Username     string      `json:"username" db:"username"`
	UserID       IdentityRef `json:"user_id" db:"user_id"`
	PasswordHash string      `json:"-" db:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// RegisterRequest is the request body for account registration. Name defaults
// to the username when empty.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	CoverImage   string `json:"cover_image"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued access token and the resolved profile.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"`
	Profile     *Profile `json:"profile"`
}

var (
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUsernameInvalid is returned when a username fails validation
	ErrUsernameInvalid = errors.New("username must be 3-30 characters")

	// ErrPasswordTooShort is returned when a password is under 8 characters
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
