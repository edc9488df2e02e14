// Package domain contains event types for the publishing workflow.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Event belongs to one organization. Content fields are editable by any
// member; the published flag only changes under an admin.
type Event struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"column:org_id;not null;index" json:"org_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Body        string       `gorm:"type:text" json:"body"`
	Published   bool         `gorm:"not null;default:false" json:"published"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "events" }

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
	Published   *bool   `json:"published"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Body == nil && p.Published == nil
}
