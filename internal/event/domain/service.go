package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound         = errors.New("event_not_found")
	ErrTitleRequired    = errors.New("Title is required")
	ErrPublishForbidden = errors.New("You must be an admin to change publish status of an event")
	ErrDeleteForbidden  = errors.New("You must be an admin to delete an event")
)

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

type Service interface {
	// Create adds a draft event. Members only; new events start
	// unpublished.
	Create(ctx context.Context, callerID, orgID snowflake.ID, req CreateRequest) (*Event, error)

	// Update applies a partial edit. Members may edit content fields;
	// changing the published value requires admin.
	Update(ctx context.Context, callerID, eventID snowflake.ID, patch Patch) (*Event, error)

	// Delete removes the event. Admin only.
	Delete(ctx context.Context, callerID, eventID snowflake.ID) error

	// Get returns the event. Published events are visible to anyone;
	// drafts only to members of the owning organization.
	Get(ctx context.Context, callerID, eventID snowflake.ID) (*Event, error)

	// ListPublished returns all published events across organizations.
	ListPublished(ctx context.Context) ([]Event, error)

	// ListForOrganization returns the organization's events, drafts
	// included. Members only.
	ListForOrganization(ctx context.Context, callerID, orgID snowflake.ID) ([]Event, error)
}

type Repository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id snowflake.ID) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	ListPublished(ctx context.Context) ([]Event, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Event, error)
}
