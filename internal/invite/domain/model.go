// Package domain contains invite types and the invite state machine
// vocabulary.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatePending   = "pending"
	StateAccepted  = "accepted"
	StateDeclined  = "declined"
	StateCancelled = "cancelled"
)

// Terminal reports whether state admits no further transitions.
func Terminal(state string) bool {
	return state == StateAccepted || state == StateDeclined || state == StateCancelled
}

// Invite proposes organization membership to a user. Transitions are
// one-way: pending resolves to exactly one of accepted, declined or
// cancelled.
type Invite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"column:org_id;not null;index" json:"org_id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	State     string       `gorm:"type:text;not null" json:"state"`
	InvitedBy snowflake.ID `gorm:"column:invited_by;not null" json:"invited_by"`
	InvitedAt time.Time    `gorm:"column:invited_at;not null;default:CURRENT_TIMESTAMP" json:"invited_at"`
}

// TableName sets the database table name.
func (Invite) TableName() string { return "organization_invites" }

// UserInvite is one row of the invitee-facing listing, joined with the
// organization and the inviting user.
type UserInvite struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	OrgName     string    `json:"org_name"`
	State       string    `json:"state"`
	InviterName string    `json:"inviter_name"`
	InvitedAt   time.Time `json:"invited_at"`
}

// OrgInvite is one row of the organization-facing listing, joined with
// the invited user.
type OrgInvite struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	InviteeName  string    `json:"invitee_name"`
	InviteeEmail string    `json:"invitee_email"`
	State        string    `json:"state"`
	InvitedAt    time.Time `json:"invited_at"`
}
