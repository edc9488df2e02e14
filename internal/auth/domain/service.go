package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	CurrentUser(ctx context.Context, userID snowflake.ID) (*PublicUser, error)
}

type RegisterRequest struct {
	Name      string
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthResult is returned by Register and Login. RawToken goes into the
// session cookie and is never persisted.
type AuthResult struct {
	User      PublicUser
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
