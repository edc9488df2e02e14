package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Service interface {
	// Create inserts the organization and its creator's admin
	// membership as one unit.
	Create(ctx context.Context, userID snowflake.ID, req CreateRequest) (*Organization, error)

	// Get returns the organization with its member listing. The caller
	// must be a member.
	Get(ctx context.Context, userID, orgID snowflake.ID) (*Detail, error)

	ListMemberships(ctx context.Context, userID snowflake.ID) ([]Membership, error)

	// RemoveMember deletes a membership row. Admins may remove anyone;
	// a member may only remove themselves (leave).
	RemoveMember(ctx context.Context, callerID, orgID, userID snowflake.ID) error

	// Delete removes the organization and everything it owns. Admin
	// only.
	Delete(ctx context.Context, callerID, orgID snowflake.ID) error
}
