package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	authdomain "github.com/gatherkit/gatherkit/internal/auth/domain"
	"github.com/gatherkit/gatherkit/internal/authz"
	"github.com/gatherkit/gatherkit/internal/invite/domain"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	orgRepo orgdomain.Repository
	users   authdomain.Repository
	authz   authz.Service
	audit   auditdomain.Service
	genID   *snowflake.Node
}

func NewService(
	dbConn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	orgRepo orgdomain.Repository,
	users authdomain.Repository,
	authzSvc authz.Service,
	auditSvc auditdomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:      dbConn,
		log:     log.Named("invite.service"),
		repo:    repo,
		orgRepo: orgRepo,
		users:   users,
		authz:   authzSvc,
		audit:   auditSvc,
		genID:   genID,
	}
}

func (s *service) Create(ctx context.Context, callerID, orgID snowflake.ID, email string) (*domain.Invite, error) {
	if err := s.authz.Can(ctx, callerID, orgID, authz.ObjectInvite, authz.ActionInviteCreate); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, domain.ErrInviteeNotFound
		}
		return nil, err
	}

	if _, err := s.orgRepo.GetMember(ctx, orgID, user.ID); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, orgdomain.ErrNotMember) {
		return nil, err
	}

	if _, err := s.repo.FindPending(ctx, orgID, user.ID); err == nil {
		return nil, domain.ErrAlreadyInvited
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	invite := domain.Invite{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		UserID:    user.ID,
		State:     domain.StatePending,
		InvitedBy: callerID,
		InvitedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, &invite); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyInvited
		}
		return nil, err
	}

	s.recordAudit(ctx, orgID, callerID, "invite_create", map[string]any{
		"invite_id":       invite.ID.String(),
		"invitee_user_id": user.ID.String(),
		"invitee_email":   email,
	})

	return &invite, nil
}

func (s *service) Respond(ctx context.Context, callerID, inviteID snowflake.ID, accept bool) error {
	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.UserID != callerID {
		return authz.ErrForbidden
	}
	if domain.Terminal(invite.State) {
		return domain.ErrNotPending
	}

	// The organization row can be gone while its invites linger, for
	// example after a crash between the cascade steps. Force-cancel the
	// orphan instead of accepting into a dead organization.
	if _, err := s.orgRepo.FindByID(ctx, invite.OrgID); err != nil {
		if errors.Is(err, orgdomain.ErrNotFound) {
			if _, cancelErr := s.repo.UpdateState(ctx, invite.ID, domain.StatePending, domain.StateCancelled); cancelErr != nil {
				s.log.Warn("failed to cancel orphaned invite",
					zap.String("invite_id", invite.ID.String()),
					zap.Error(cancelErr))
			}
			return domain.ErrOrganizationGone
		}
		return err
	}

	if !accept {
		rows, err := s.repo.UpdateState(ctx, invite.ID, domain.StatePending, domain.StateDeclined)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrNotPending
		}
		s.recordAudit(ctx, invite.OrgID, callerID, "invite_decline", map[string]any{
			"invite_id": invite.ID.String(),
		})
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := orgdomain.OrganizationMember{
			OrgID:    invite.OrgID,
			UserID:   invite.UserID,
			Role:     orgdomain.RoleMember,
			JoinedAt: time.Now().UTC(),
		}
		if err := s.orgRepo.WithTx(tx).AddMember(ctx, &member); err != nil {
			return err
		}

		rows, err := s.repo.WithTx(tx).UpdateState(ctx, invite.ID, domain.StatePending, domain.StateAccepted)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrNotPending
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrAlreadyMember
		}
		return err
	}

	s.recordAudit(ctx, invite.OrgID, callerID, "invite_accept", map[string]any{
		"invite_id": invite.ID.String(),
	})
	return nil
}

func (s *service) Cancel(ctx context.Context, callerID, inviteID snowflake.ID) error {
	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		return err
	}

	if err := s.authz.Can(ctx, callerID, invite.OrgID, authz.ObjectInvite, authz.ActionInviteCancel); err != nil {
		return err
	}

	switch invite.State {
	case domain.StateCancelled:
		return domain.ErrAlreadyCancelled
	case domain.StateAccepted:
		return domain.ErrAlreadyAccepted
	}

	rows, err := s.repo.UpdateState(ctx, invite.ID, domain.StatePending, domain.StateCancelled)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotPending
	}

	s.recordAudit(ctx, invite.OrgID, callerID, "invite_cancel", map[string]any{
		"invite_id":       invite.ID.String(),
		"invitee_user_id": invite.UserID.String(),
	})
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID snowflake.ID) ([]domain.UserInvite, error) {
	if userID == 0 {
		return nil, authz.ErrInvalidActor
	}
	return s.repo.ListPendingByUser(ctx, userID)
}

func (s *service) ListForOrganization(ctx context.Context, callerID, orgID snowflake.ID) ([]domain.OrgInvite, error) {
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
