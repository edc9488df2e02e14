// Package domain contains organization and membership types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is one of the membership roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

type Organization struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Slug        string       `gorm:"type:text;not null" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// OrganizationMember joins a user to an organization with a role.
// Exactly one row per (org, user) pair; removal means deleting the row.
type OrganizationMember struct {
	OrgID    snowflake.ID `gorm:"column:org_id;primaryKey" json:"org_id"`
	UserID   snowflake.ID `gorm:"column:user_id;primaryKey" json:"user_id"`
	Role     string       `gorm:"type:text;not null" json:"role"`
	JoinedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

// TableName sets the database table name.
func (OrganizationMember) TableName() string { return "organization_members" }

// Member is the listing projection joined with the user row.
type Member struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Membership is one row of a user's organization listing.
type Membership struct {
	OrgID    string    `json:"org_id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Detail is an organization with its member listing, returned to
// members only.
type Detail struct {
	Organization Organization `json:"organization"`
	Members      []Member     `json:"members"`
}
