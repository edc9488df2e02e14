package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// WithTx returns a copy of the repository bound to tx.
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, invite *Invite) error
	FindByID(ctx context.Context, id snowflake.ID) (*Invite, error)

	// FindPending returns the pending invite for the pair, or
	// ErrNotFound.
	FindPending(ctx context.Context, orgID, userID snowflake.ID) (*Invite, error)

	// UpdateState transitions the invite out of fromState. Returns the
	// number of rows changed so callers can detect a lost race.
	UpdateState(ctx context.Context, id snowflake.ID, fromState, toState string) (int64, error)

	ListPendingByUser(ctx context.Context, userID snowflake.ID) ([]UserInvite, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]OrgInvite, error)
}
