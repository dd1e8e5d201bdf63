package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockStore) {
	t.Helper()
	store := newMockStore()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	svc := NewAuthService(store, passwords, tokens, testLogger())
	return svc, store
}

// =========================================================================
// REGISTER
// =========================================================================

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "alice", "a long password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.ID == 0 {
		t.Error("Register() did not assign a user id")
	}
	if result.User.Username != "alice" {
		t.Errorf("Username = %q, want alice", result.User.Username)
	}
	if result.User.PasswordHash == "a long password" {
		t.Error("Register() stored the plaintext password")
	}
	if result.Token == "" {
		t.Error("Register() did not open a session")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "original password"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "alice", "impostor password")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() error = %v, want ErrConflict", err)
	}

	// The original account's credential must be unaffected: logging in with
	// the original password still works, the impostor's doesn't.
	if _, err := svc.Login(ctx, "alice", "original password"); err != nil {
		t.Errorf("Login() with original password after conflict: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "impostor password"); err == nil {
		t.Error("Login() accepted the impostor's password")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "long enough pw"},
		{name: "whitespace username", username: "   ", password: "long enough pw"},
		{name: "short password", username: "alice", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register(%q, %q) error = %v, want ErrValidation",
					tt.username, tt.password, err)
			}
		})
	}
}

// =========================================================================
// LOGIN
// =========================================================================

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "a long password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, "alice", "a long password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != registered.User.ID {
		t.Errorf("Login() user id = %d, want %d", result.User.ID, registered.User.ID)
	}
	if result.Token == "" {
		t.Error("Login() did not open a session")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a long password"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Unknown user and wrong password must be indistinguishable.
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "not it"},
		{name: "unknown user", username: "mallory", password: "a long password"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, apperror.ErrUnauthenticated) {
				t.Errorf("Login() error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

// =========================================================================
// CURRENT USER
// =========================================================================

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "a long password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.GetUserByID(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want alice", user.Username)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.GetUserByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
