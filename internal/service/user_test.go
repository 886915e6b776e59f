package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newUserService(users *mockUserStore) *UserService {
	return NewUserService(users, testSecret, time.Hour, zap.NewNop())
}

func TestSignup_Success(t *testing.T) {
	users := newMockUserStore()
	svc := newUserService(users)

	resp, err := svc.Signup(context.Background(), model.SignupRequest{
		Name:     "Alice Kalonji",
		Email:    "Alice@Example.com ",
		Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	// Email is normalized before storage.
	if resp.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", resp.User.Email)
	}

	// Only the bcrypt hash is stored.
	stored := users.users[resp.User.ID]
	if stored.Password == "s3cret!" {
		t.Error("password must not be stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret!")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	// The token carries the user id as subject and is signed with the secret.
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Subject != resp.User.ID {
		t.Errorf("expected subject %q, got %q", resp.User.ID, claims.Subject)
	}
}

func TestSignup_Validation(t *testing.T) {
	svc := newUserService(newMockUserStore())

	cases := []struct {
		name string
		req  model.SignupRequest
	}{
		{"short name", model.SignupRequest{Name: "A", Email: "a@example.com", Password: "s3cret!"}},
		{"bad email", model.SignupRequest{Name: "Alice", Email: "not-an-email", Password: "s3cret!"}},
		{"short password", model.SignupRequest{Name: "Alice", Email: "a@example.com", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(context.Background(), tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	svc := newUserService(newMockUserStore(testUser()))

	_, err := svc.Signup(context.Background(), model.SignupRequest{
		Name:     "Alice Bis",
		Email:    "alice@example.com",
		Password: "s3cret!",
	})
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	users := newMockUserStore()
	svc := newUserService(users)

	if _, err := svc.Signup(context.Background(), model.SignupRequest{
		Name:     "Alice Kalonji",
		Email:    "alice@example.com",
		Password: "s3cret!",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newMockUserStore()
	svc := newUserService(users)

	if _, err := svc.Signup(context.Background(), model.SignupRequest{
		Name:     "Alice Kalonji",
		Email:    "alice@example.com",
		Password: "s3cret!",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newUserService(newMockUserStore())

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "ghost@example.com", Password: "s3cret!"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}
