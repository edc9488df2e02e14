package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	"github.com/gatherkit/gatherkit/internal/requestcache"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&orgdomain.Organization{}, &orgdomain.OrganizationMember{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	enforcer, err := NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return NewService(dbConn, zap.NewNop(), enforcer), dbConn, node
}

func addMember(t *testing.T, dbConn *gorm.DB, orgID, userID snowflake.ID, role string) {
	t.Helper()
	member := orgdomain.OrganizationMember{OrgID: orgID, UserID: userID, Role: role, JoinedAt: time.Now().UTC()}
	if err := dbConn.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
}

func TestResolveCallerNonMemberHasEmptyRole(t *testing.T) {
	svc, _, node := newTestService(t)

	caller, err := svc.ResolveCaller(context.Background(), node.Generate(), node.Generate())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if caller.IsMember() {
		t.Fatalf("expected non-member, got role %q", caller.Role)
	}
}

func TestRequireMember(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	orgID, userID := node.Generate(), node.Generate()
	addMember(t, dbConn, orgID, userID, orgdomain.RoleMember)

	caller, err := svc.RequireMember(context.Background(), userID, orgID)
	if err != nil {
		t.Fatalf("expected member, got %v", err)
	}
	if caller.Role != orgdomain.RoleMember {
		t.Fatalf("expected member role, got %q", caller.Role)
	}

	_, err = svc.RequireMember(context.Background(), node.Generate(), orgID)
	if !errors.Is(err, orgdomain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	orgID := node.Generate()
	adminID, memberID := node.Generate(), node.Generate()
	addMember(t, dbConn, orgID, adminID, orgdomain.RoleAdmin)
	addMember(t, dbConn, orgID, memberID, orgdomain.RoleMember)

	if _, err := svc.RequireAdmin(context.Background(), adminID, orgID); err != nil {
		t.Fatalf("expected admin, got %v", err)
	}
	if _, err := svc.RequireAdmin(context.Background(), memberID, orgID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCanGatesByRole(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	orgID := node.Generate()
	adminID, memberID := node.Generate(), node.Generate()
	addMember(t, dbConn, orgID, adminID, orgdomain.RoleAdmin)
	addMember(t, dbConn, orgID, memberID, orgdomain.RoleMember)

	if err := svc.Can(context.Background(), adminID, orgID, ObjectEvent, ActionEventPublish); err != nil {
		t.Fatalf("expected admin capability, got %v", err)
	}
	if err := svc.Can(context.Background(), memberID, orgID, ObjectEvent, ActionEventPublish); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Can(context.Background(), node.Generate(), orgID, ObjectEvent, ActionEventPublish); !errors.Is(err, orgdomain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestCanFollowsRoleChange(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	orgID, userID := node.Generate(), node.Generate()
	addMember(t, dbConn, orgID, userID, orgdomain.RoleMember)

	if err := svc.Can(context.Background(), userID, orgID, ObjectInvite, ActionInviteCreate); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := dbConn.Exec(
		`UPDATE organization_members SET role = ? WHERE org_id = ? AND user_id = ?`,
		orgdomain.RoleAdmin, orgID, userID,
	).Error; err != nil {
		t.Fatalf("failed to promote: %v", err)
	}

	if err := svc.Can(context.Background(), userID, orgID, ObjectInvite, ActionInviteCreate); err != nil {
		t.Fatalf("expected capability after promotion, got %v", err)
	}
}

func TestResolveCallerMemoizedWithinRequest(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	orgID, userID := node.Generate(), node.Generate()
	addMember(t, dbConn, orgID, userID, orgdomain.RoleMember)

	ctx := requestcache.With(context.Background(), requestcache.New())

	first, err := svc.ResolveCaller(ctx, userID, orgID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Role changes mid-request are not observed until the next request.
	if err := dbConn.Exec(
		`UPDATE organization_members SET role = ? WHERE org_id = ? AND user_id = ?`,
		orgdomain.RoleAdmin, orgID, userID,
	).Error; err != nil {
		t.Fatalf("failed to promote: %v", err)
	}

	second, err := svc.ResolveCaller(ctx, userID, orgID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if second.Role != first.Role {
		t.Fatalf("expected memoized role %q, got %q", first.Role, second.Role)
	}

	fresh, err := svc.ResolveCaller(context.Background(), userID, orgID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if fresh.Role != orgdomain.RoleAdmin {
		t.Fatalf("expected new request to observe admin, got %q", fresh.Role)
	}
}
