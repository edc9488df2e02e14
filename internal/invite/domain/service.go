package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create invites the user registered under email into the
	// organization. Admin only.
	Create(ctx context.Context, callerID, orgID snowflake.ID, email string) (*Invite, error)

	// Respond accepts or declines a pending invite. Only the invitee
	// may respond. Accepting inserts the membership row and marks the
	// invite accepted as one unit.
	Respond(ctx context.Context, callerID, inviteID snowflake.ID, accept bool) error

	// Cancel transitions a pending invite to cancelled. Admin only.
	Cancel(ctx context.Context, callerID, inviteID snowflake.ID) error

	// ListForUser returns the caller's pending invites.
	ListForUser(ctx context.Context, userID snowflake.ID) ([]UserInvite, error)

	// ListForOrganization returns the organization's invites, omitting
	// accepted ones. Members only.
	ListForOrganization(ctx context.Context, callerID, orgID snowflake.ID) ([]OrgInvite, error)
}
