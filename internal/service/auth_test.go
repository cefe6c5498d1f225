package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"socialite/internal/config"
	"socialite/internal/model"
	"socialite/internal/store"
	"socialite/pkg/logger"
)

func newAuthFixture() (*AuthService, *store.CredentialStore, *store.UserStore) {
	creds := store.NewCredentialStore(testClock())
	users := store.NewUserStore(testClock())
	userSvc := NewUserService(users, &mockNotifier{}, logger.NewNopLogger())
	cfg := &config.Config{JWTSecret: "test-secret", AccessTokenMaxAge: 900}
	return NewAuthService(creds, userSvc, cfg, logger.NewNopLogger()), creds, users
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, creds, users := newAuthFixture()

	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Password: "correct-horse",
		Bio:      "climber",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("expected expires_in 900, got %d", resp.ExpiresIn)
	}
	// Name defaults to the username when omitted
	if resp.Profile.Name != "alice" {
		t.Errorf("expected name to default to username, got %q", resp.Profile.Name)
	}

	// Credential stores a bcrypt hash, never the password
	cred, ok := creds.Lookup("alice")
	if !ok {
		t.Fatal("expected credential stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("correct-horse")); err != nil {
		t.Error("stored hash does not verify")
	}

	if !users.Exists(cred.UserID) {
		t.Error("expected profile created for minted identity")
	}

	// Token claims carry the minted identity in sub
	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != cred.UserID.String() {
		t.Errorf("expected sub=%s, got %v", cred.UserID, claims["sub"])
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "ab", Password: "long-enough"}); !errors.Is(err, model.ErrUsernameInvalid) {
		t.Errorf("expected ErrUsernameInvalid for short name, got %v", err)
	}
	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "short"}); !errors.Is(err, model.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "correct-horse"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// Case-insensitive uniqueness
	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "ALICE", Password: "correct-horse"}); !errors.Is(err, model.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Profile.ID != reg.Profile.ID {
		t.Error("login must resolve to the registered identity")
	}

	if _, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, model.LoginRequest{Username: "ghost", Password: "whatever"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
