package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidSession     = errors.New("invalid session")
)

// FieldErrors carries per-field validation failures for the form-style
// register and login operations. Nil fields render as null so clients
// never show a blank error message.
type FieldErrors struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (e *FieldErrors) Error() string { return "validation error" }

func (e *FieldErrors) Empty() bool {
	return e == nil || (e.Name == nil && e.Email == nil && e.Password == nil)
}
