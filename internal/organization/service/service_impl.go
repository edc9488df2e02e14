package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"

	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	"github.com/gatherkit/gatherkit/internal/authz"
	"github.com/gatherkit/gatherkit/internal/organization/domain"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	authz authz.Service
	audit auditdomain.Service
	genID *snowflake.Node
}

func NewService(
	dbConn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	authzSvc authz.Service,
	auditSvc auditdomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:    dbConn,
		log:   log.Named("organization.service"),
		repo:  repo,
		authz: authzSvc,
		audit: auditSvc,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateRequest) (*domain.Organization, error) {
	if userID == 0 {
		return nil, authz.ErrInvalidActor
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, &org); err != nil {
			return err
		}

		member := domain.OrganizationMember{
			OrgID:    org.ID,
			UserID:   userID,
			Role:     domain.RoleAdmin,
			JoinedAt: now,
		}
		return repo.AddMember(ctx, &member)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}

	s.recordAudit(ctx, org.ID, userID, "organization_create", map[string]any{
		"name": org.Name,
	})

	return &org, nil
}

func (s *service) Get(ctx context.Context, userID, orgID snowflake.ID) (*domain.Detail, error) {
	if _, err := s.authz.RequireMember(ctx, userID, orgID); err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return &domain.Detail{Organization: *org, Members: members}, nil
}

func (s *service) ListMemberships(ctx context.Context, userID snowflake.ID) ([]domain.Membership, error) {
	if userID == 0 {
		return nil, authz.ErrInvalidActor
	}
	return s.repo.ListMembershipsByUser(ctx, userID)
}

func (s *service) RemoveMember(ctx context.Context, callerID, orgID, userID snowflake.ID) error {
	leaving := callerID == userID

	if leaving {
		if _, err := s.authz.RequireMember(ctx, callerID, orgID); err != nil {
			return err
		}
	} else {
		if err := s.authz.Can(ctx, callerID, orgID, authz.ObjectMember, authz.ActionMemberRemove); err != nil {
			return err
		}
	}

	rows, err := s.repo.RemoveMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotMember
	}

	action := "member_remove"
	if leaving {
		action = "member_leave"
	}
	s.recordAudit(ctx, orgID, callerID, action, map[string]any{
		"member_user_id": userID.String(),
	})
	return nil
}

func (s *service) Delete(ctx context.Context, callerID, orgID snowflake.ID) error {
	if err := s.authz.Can(ctx, callerID, orgID, authz.ObjectOrganization, authz.ActionOrganizationDelete); err != nil {
		return err
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, orgID); err != nil {
		return err
	}

	s.recordAudit(ctx, orgID, callerID, "organization_delete", map[string]any{
		"name": org.Name,
	})
	return nil
}

func (s *service) recordAudit(ctx context.Context, orgID, userID snowflake.ID, action string, params map[string]any) {
	if err := s.audit.Record(ctx, orgID, userID, action, params); err != nil {
		s.log.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}
