package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// WithTx returns a copy of the repository bound to tx.
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	Delete(ctx context.Context, id snowflake.ID) error

	AddMember(ctx context.Context, member *OrganizationMember) error
	GetMember(ctx context.Context, orgID, userID snowflake.ID) (*OrganizationMember, error)
	RemoveMember(ctx context.Context, orgID, userID snowflake.ID) (int64, error)
	ListMembers(ctx context.Context, orgID snowflake.ID) ([]Member, error)
	ListMembershipsByUser(ctx context.Context, userID snowflake.ID) ([]Membership, error)
}
