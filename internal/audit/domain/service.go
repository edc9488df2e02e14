package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// PageSize is the fixed audit listing page size.
const PageSize = 50

type Service interface {
	// Record appends one audit entry. Callers treat failures as
	// best-effort: the returned error is for the operator log only and
	// must never fail the triggering mutation.
	Record(ctx context.Context, orgID, userID snowflake.ID, action string, params map[string]any) error
	ListForOrganization(ctx context.Context, orgID snowflake.ID, page int) ([]Entry, error)
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	ListByOrganization(ctx context.Context, orgID snowflake.ID, offset, limit int) ([]Entry, error)
}

var (
	ErrInvalidAction       = errors.New("invalid_action")
	ErrInvalidOrganization = errors.New("invalid_organization")
)
