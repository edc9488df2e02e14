package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	"github.com/gatherkit/gatherkit/internal/authz"
	"github.com/gatherkit/gatherkit/internal/event/domain"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	authz authz.Service
	audit auditdomain.Service
	genID *snowflake.Node
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	authzSvc authz.Service,
	auditSvc auditdomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		log:   log.Named("event.service"),
		repo:  repo,
		authz: authzSvc,
		audit: auditSvc,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, callerID, orgID snowflake.ID, req domain.CreateRequest) (*domain.Event, error) {
	if _, err := s.authz.RequireMember(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	now := time.Now().UTC()
	event := domain.Event{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Body:        req.Body,
		Published:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &event); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, orgID, callerID, "event_create", map[string]any{
		"event_id": event.ID.String(),
		"title":    event.Title,
	})

	return &event, nil
}

func (s *service) Update(ctx context.Context, callerID, eventID snowflake.ID, patch domain.Patch) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authz.RequireMember(ctx, callerID, event.OrgID); err != nil {
		return nil, err
	}

	// Supplying the current published value is a no-op, not a
	// transition, so the admin gate only applies when the value would
	// actually change.
	if patch.Published != nil && *patch.Published != event.Published {
		if err := s.authz.Can(ctx, callerID, event.OrgID, authz.ObjectEvent, authz.ActionEventPublish); err != nil {
			if errors.Is(err, authz.ErrForbidden) {
				return nil, domain.ErrPublishForbidden
			}
			return nil, err
		}
	}

	changes := map[string]any{"event_id": event.ID.String()}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		event.Title = title
		changes["title"] = title
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
		changes["description"] = event.Description
	}
	if patch.Body != nil {
		event.Body = *patch.Body
		changes["body_changed"] = true
	}
	if patch.Published != nil && *patch.Published != event.Published {
		event.Published = *patch.Published
		changes["published"] = event.Published
	}

	event.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, event.OrgID, callerID, "event_update", changes)
	return event, nil
}

func (s *service) Delete(ctx context.Context, callerID, eventID snowflake.ID) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.authz.Can(ctx, callerID, event.OrgID, authz.ObjectEvent, authz.ActionEventDelete); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			return domain.ErrDeleteForbidden
		}
		return err
	}

	rows, err := s.repo.Delete(ctx, eventID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.recordAudit(ctx, event.OrgID, callerID, "event_delete", map[string]any{
		"event_id": event.ID.String(),
		"title":    event.Title,
	})
	return nil
}

func (s *service) Get(ctx context.Context, callerID, eventID snowflake.ID) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Published {
		return event, nil
	}

	// Drafts stay inside the organization.
	if callerID == 0 {
		return nil, domain.ErrNotFound
	}
	caller, err := s.authz.ResolveCaller(ctx, callerID, event.OrgID)
	if err != nil {
		return nil, err
	}
	if !caller.IsMember() {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *service) ListPublished(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListPublished(ctx)
}

func (s *service) ListForOrganization(ctx context.Context, callerID, orgID snowflake.ID) ([]domain.Event, error) {
	if _, err := s.authz.RequireMember(ctx, callerID, orgID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *service) recordAudit(ctx context.Context, orgID, userID snowflake.ID, action string, params map[string]any) {
	if err := s.audit.Record(ctx, orgID, userID, action, params); err != nil {
		s.log.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}
