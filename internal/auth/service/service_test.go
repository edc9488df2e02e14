package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/gatherkit/gatherkit/internal/auth/domain"
	"github.com/gatherkit/gatherkit/internal/auth/repository"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(zap.NewNop(), repo, sessionRepo, node)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.Name != "Alice" {
		t.Fatalf("expected Alice, got %s", result.User.Name)
	}
	if result.RawToken == "" {
		t.Fatal("expected session token")
	}

	login, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "a@x.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatalf("expected same user, got %s and %s", login.User.ID, result.User.ID)
	}
}

func TestRegisterFieldValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "",
		Email:    "not-an-email",
		Password: "short",
	})

	var fieldErrs *authdomain.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fieldErrs.Name == nil || fieldErrs.Email == nil || fieldErrs.Password == nil {
		t.Fatalf("expected all fields flagged, got %+v", fieldErrs)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Also Alice",
		Email:    "a@x.com",
		Password: "password456",
	})
	if !errors.Is(err, authdomain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.UserID.String() != result.User.ID {
		t.Fatalf("expected user %s, got %s", result.User.ID, session.UserID)
	}

	if _, err := svc.Authenticate(context.Background(), "bogus-token"); !errors.Is(err, authdomain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "another-password",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout without token failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), result.RawToken); !errors.Is(err, authdomain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
