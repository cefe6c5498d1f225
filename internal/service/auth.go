package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"socialite/internal/config"
	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 8
)

// AuthService issues identities and access tokens at the HTTP boundary. The
// stores themselves only ever see opaque identity refs.
type AuthService struct {
	creds  *store.CredentialStore
	users  *UserService
	config *config.Config
	log    *logger.Logger
}

func NewAuthService(creds *store.CredentialStore, users *UserService, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		creds:  creds,
		users:  users,
		config: cfg,
		log:    log,
	}
}

// Register creates a credential and its profile atomically from the caller's
// point of view: if profile creation fails the credential is rolled back.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, model.ErrUsernameInvalid
	}
	if len(req.Password) < minPasswordLen {
		return nil, model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := model.IdentityRef(uuid.NewString())
	if err := s.creds.Create(username, userID, string(hash)); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}

	profile, err := s.users.Register(ctx, userID, name, req.Bio, req.ProfileImage, req.CoverImage)
	if err != nil {
		s.creds.Delete(username)
		return nil, err
	}

	token, err := s.generateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.log.WithField("user_id", userID.String()).Info("user registered")
	return &model.AuthResponse{
		AccessToken: token,
		ExpiresIn:   s.config.AccessTokenMaxAge,
		Profile:     profile,
	}, nil
}

// Login verifies the credential and returns a fresh token plus the profile.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	cred, ok := s.creds.Lookup(req.Username)
	if !ok {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	profile, err := s.users.GetProfile(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(cred.UserID, cred.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &model.AuthResponse{
		AccessToken: token,
		ExpiresIn:   s.config.AccessTokenMaxAge,
		Profile:     profile,
	}, nil
}

func (s *AuthService) generateAccessToken(userID model.IdentityRef, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
