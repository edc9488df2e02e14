// Package domain contains types for the audit log service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a mutating action within an
// organization. Rows are never updated or deleted by the application.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"column:org_id;not null;index" json:"org_id"`
	UserID    snowflake.ID      `gorm:"column:user_id;not null" json:"user_id"`
	Action    string            `gorm:"type:text;not null" json:"action"`
	Params    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"params"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// Entry is the listing projection joined with the acting user.
type Entry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Params    map[string]any `json:"params"`
	CreatedAt time.Time      `json:"created_at"`
	User      *EntryUser     `json:"user"`
}

// EntryUser identifies the actor of a log entry. Nil when the user row
// no longer exists.
type EntryUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
