package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	"github.com/gatherkit/gatherkit/internal/requestid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(log *zap.Logger, genID *snowflake.Node, repo auditdomain.Repository) auditdomain.Service {
	return &Service{
		log:   log.Named("audit.service"),
		genID: genID,
		repo:  repo,
	}
}

func (s *Service) Record(ctx context.Context, orgID, userID snowflake.ID, action string, params map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	if orgID == 0 {
		return auditdomain.ErrInvalidOrganization
	}

	payload := map[string]any{}
	for key, value := range params {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		payload["request_id"] = reqID
	}

	entry := &auditdomain.AuditLog{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		UserID:    userID,
		Action:    action,
		Params:    datatypes.JSONMap(payload),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("action", action),
			zap.String("org_id", orgID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) ListForOrganization(ctx context.Context, orgID snowflake.ID, page int) ([]auditdomain.Entry, error) {
	if orgID == 0 {
		return nil, auditdomain.ErrInvalidOrganization
	}
	if page < 0 {
		page = 0
	}
	return s.repo.ListByOrganization(ctx, orgID, page*auditdomain.PageSize, auditdomain.PageSize)
}
