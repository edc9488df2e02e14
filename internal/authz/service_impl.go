package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	"github.com/gatherkit/gatherkit/internal/requestcache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewService(db *gorm.DB, log *zap.Logger, enforcer *casbin.SyncedEnforcer) Service {
	return &service{
		db:       db,
		log:      log.Named("authz.service"),
		enforcer: enforcer,
	}
}

func (s *service) ResolveCaller(ctx context.Context, userID, orgID snowflake.ID) (Caller, error) {
	if userID == 0 {
		return Caller{}, ErrInvalidActor
	}
	if orgID == 0 {
		return Caller{}, ErrInvalidOrganization
	}

	role, err := s.roleForUser(ctx, orgID, userID)
	if err != nil {
		return Caller{}, err
	}
	return Caller{UserID: userID, Role: role}, nil
}

func (s *service) RequireMember(ctx context.Context, userID, orgID snowflake.ID) (Caller, error) {
	caller, err := s.ResolveCaller(ctx, userID, orgID)
	if err != nil {
		return Caller{}, err
	}
	if !caller.IsMember() {
		return Caller{}, orgdomain.ErrNotMember
	}
	return caller, nil
}

func (s *service) RequireAdmin(ctx context.Context, userID, orgID snowflake.ID) (Caller, error) {
	caller, err := s.RequireMember(ctx, userID, orgID)
	if err != nil {
		return Caller{}, err
	}
	if caller.Role != orgdomain.RoleAdmin {
		return Caller{}, ErrForbidden
	}
	return caller, nil
}

func (s *service) Can(ctx context.Context, userID, orgID snowflake.ID, object, action string) error {
	caller, err := s.RequireMember(ctx, userID, orgID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("user:%s", userID.String())
	roleName := fmt.Sprintf("role:%s", strings.ToLower(caller.Role))
	domain := fmt.Sprintf("org:%s", orgID.String())

	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("capability denied",
			zap.String("subject", subject),
			zap.String("org_id", orgID.String()),
			zap.String("object", object),
			zap.String("action", action))
		return ErrForbidden
	}
	return nil
}

// roleForUser reads the membership row, memoized per request so the
// handler chain and workflow services share one lookup.
func (s *service) roleForUser(ctx context.Context, orgID, userID snowflake.ID) (string, error) {
	key := fmt.Sprintf("authz.role:%s:%s", orgID.String(), userID.String())
	value, err := requestcache.Do(ctx, key, func() (any, error) {
		var row struct {
			Role string `gorm:"column:role"`
		}
		if err := s.db.WithContext(ctx).Raw(
			`SELECT role
			 FROM organization_members
			 WHERE org_id = ? AND user_id = ?
			 LIMIT 1`,
			orgID,
			userID,
		).Scan(&row).Error; err != nil {
			return "", err
		}
		return strings.TrimSpace(row.Role), nil
	})
	if err != nil {
		return "", err
	}
	role, _ := value.(string)
	return role, nil
}

// ensureGrouping keeps the enforcer's subject-to-role link for the
// domain in step with the membership table, dropping stale links when
// the role changed.
func (s *service) ensureGrouping(subject, roleName, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}
