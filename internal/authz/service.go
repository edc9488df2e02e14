package authz

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrForbidden           = errors.New("forbidden")
)

// Caller is a resolved identity within one organization. Role is empty
// when the user is authenticated but not a member.
type Caller struct {
	UserID snowflake.ID
	Role   string
}

// IsMember reports whether the caller holds any role in the
// organization.
func (c Caller) IsMember() bool { return c.Role != "" }

type Service interface {
	// ResolveCaller looks up the caller's role for the organization.
	// A non-member resolves successfully with an empty role.
	ResolveCaller(ctx context.Context, userID, orgID snowflake.ID) (Caller, error)

	// RequireMember fails with the organization domain's not-a-member
	// error when the caller holds no role.
	RequireMember(ctx context.Context, userID, orgID snowflake.ID) (Caller, error)

	// RequireAdmin fails with ErrForbidden unless the caller's role is
	// admin.
	RequireAdmin(ctx context.Context, userID, orgID snowflake.ID) (Caller, error)

	// Can checks a capability through the enforcer, keyed by object
	// and action constants.
	Can(ctx context.Context, userID, orgID snowflake.ID, object, action string) error
}
