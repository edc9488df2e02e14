package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	auditrepo "github.com/gatherkit/gatherkit/internal/audit/repository"
	auditservice "github.com/gatherkit/gatherkit/internal/audit/service"
	authdomain "github.com/gatherkit/gatherkit/internal/auth/domain"
	authrepo "github.com/gatherkit/gatherkit/internal/auth/repository"
	"github.com/gatherkit/gatherkit/internal/authz"
	"github.com/gatherkit/gatherkit/internal/invite/domain"
	"github.com/gatherkit/gatherkit/internal/invite/repository"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	orgrepo "github.com/gatherkit/gatherkit/internal/organization/repository"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = dbConn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&orgdomain.Organization{},
		&orgdomain.OrganizationMember{},
		&domain.Invite{},
		&auditdomain.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	enforcer, err := authz.NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}

	log := zap.NewNop()
	authzSvc := authz.NewService(dbConn, log, enforcer)
	auditSvc := auditservice.NewService(log, node, auditrepo.NewRepository(dbConn))
	users, _ := authrepo.New(dbConn)

	svc := NewService(
		dbConn,
		log,
		repository.NewRepository(dbConn),
		orgrepo.NewRepository(dbConn),
		users,
		authzSvc,
		auditSvc,
		node,
	)
	return &fixture{svc: svc, db: dbConn, node: node}
}

func (f *fixture) seedUser(t *testing.T, name, email string) snowflake.ID {
	t.Helper()
	user := authdomain.User{ID: f.node.Generate(), Name: name, Email: email, CreatedAt: time.Now().UTC()}
	if err := f.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

func (f *fixture) seedOrg(t *testing.T, name string, adminID snowflake.ID) snowflake.ID {
	t.Helper()
	org := orgdomain.Organization{ID: f.node.Generate(), Name: name, Slug: name, CreatedAt: time.Now().UTC()}
	if err := f.db.Create(&org).Error; err != nil {
		t.Fatalf("failed to seed org: %v", err)
	}
	member := orgdomain.OrganizationMember{OrgID: org.ID, UserID: adminID, Role: orgdomain.RoleAdmin, JoinedAt: time.Now().UTC()}
	if err := f.db.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return org.ID
}

func (f *fixture) memberCount(t *testing.T, orgID, userID snowflake.ID) int64 {
	t.Helper()
	var count int64
	err := f.db.Raw(
		`SELECT COUNT(*) FROM organization_members WHERE org_id = ? AND user_id = ?`,
		orgID, userID,
	).Scan(&count).Error
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func (f *fixture) inviteState(t *testing.T, inviteID snowflake.ID) string {
	t.Helper()
	var state string
	if err := f.db.Raw(`SELECT state FROM organization_invites WHERE id = ?`, inviteID).Scan(&state).Error; err != nil {
		t.Fatalf("state lookup failed: %v", err)
	}
	return state
}

func TestInviteAndAccept(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pending, err := f.svc.ListForUser(context.Background(), bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OrgName != "Acme" || pending[0].State != domain.StatePending {
		t.Fatalf("expected one pending Acme invite, got %+v", pending)
	}

	if err := f.svc.Respond(context.Background(), bob, invite.ID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if f.memberCount(t, orgID, bob) != 1 {
		t.Fatal("expected membership row after accept")
	}
	var role string
	if err := f.db.Raw(
		`SELECT role FROM organization_members WHERE org_id = ? AND user_id = ?`,
		orgID, bob,
	).Scan(&role).Error; err != nil {
		t.Fatalf("role lookup failed: %v", err)
	}
	if role != orgdomain.RoleMember {
		t.Fatalf("expected member role, got %s", role)
	}
	if state := f.inviteState(t, invite.ID); state != domain.StateAccepted {
		t.Fatalf("expected accepted, got %s", state)
	}

	// Accepted invites leave the invitee listing.
	pending, err = f.svc.ListForUser(context.Background(), bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending invites, got %d", len(pending))
	}
}

func TestCreateValidations(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	// Unknown email.
	_, err := f.svc.Create(context.Background(), alice, orgID, "nobody@x.com")
	if !errors.Is(err, domain.ErrInviteeNotFound) {
		t.Fatalf("expected ErrInviteeNotFound, got %v", err)
	}

	// Inviting an existing member.
	_, err = f.svc.Create(context.Background(), alice, orgID, "a@x.com")
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// Duplicate pending invite.
	if _, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err = f.svc.Create(context.Background(), alice, orgID, "B@x.com")
	if !errors.Is(err, domain.ErrAlreadyInvited) {
		t.Fatalf("expected ErrAlreadyInvited, got %v", err)
	}

	// Non-admins cannot invite.
	_, err = f.svc.Create(context.Background(), bob, orgID, "b@x.com")
	if err == nil {
		t.Fatal("expected non-member invite to fail")
	}
}

func TestRespondOnlyInvitee(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	f.seedUser(t, "Bob", "b@x.com")
	mallory := f.seedUser(t, "Mallory", "m@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = f.svc.Respond(context.Background(), mallory, invite.ID, true)
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if state := f.inviteState(t, invite.ID); state != domain.StatePending {
		t.Fatalf("expected invite untouched, got %s", state)
	}
}

func TestRespondTerminalStateNeverMutatesMembership(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	for _, state := range []string{domain.StateAccepted, domain.StateDeclined, domain.StateCancelled} {
		invite := domain.Invite{
			ID:        f.node.Generate(),
			OrgID:     orgID,
			UserID:    bob,
			State:     state,
			InvitedBy: alice,
			InvitedAt: time.Now().UTC(),
		}
		if err := f.db.Create(&invite).Error; err != nil {
			t.Fatalf("failed to seed invite: %v", err)
		}

		err := f.svc.Respond(context.Background(), bob, invite.ID, true)
		if !errors.Is(err, domain.ErrNotPending) {
			t.Fatalf("state %s: expected ErrNotPending, got %v", state, err)
		}
		if state == domain.StateAccepted {
			continue
		}
		if f.memberCount(t, orgID, bob) != 0 {
			t.Fatalf("state %s: membership must not change", state)
		}
		if got := f.inviteState(t, invite.ID); got != state {
			t.Fatalf("state %s: invite mutated to %s", state, got)
		}
	}
}

func TestRespondToUnknownInvite(t *testing.T) {
	f := newFixture(t)
	bob := f.seedUser(t, "Bob", "b@x.com")

	err := f.svc.Respond(context.Background(), bob, f.node.Generate(), true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRespondDecline(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Respond(context.Background(), bob, invite.ID, false); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if state := f.inviteState(t, invite.ID); state != domain.StateDeclined {
		t.Fatalf("expected declined, got %s", state)
	}
	if f.memberCount(t, orgID, bob) != 0 {
		t.Fatal("decline must not add membership")
	}
}

func TestRespondOrphanedInviteForceCancels(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.db.Exec(`DELETE FROM organizations WHERE id = ?`, orgID).Error; err != nil {
		t.Fatalf("failed to drop org: %v", err)
	}

	err = f.svc.Respond(context.Background(), bob, invite.ID, true)
	if !errors.Is(err, domain.ErrOrganizationGone) {
		t.Fatalf("expected ErrOrganizationGone, got %v", err)
	}
	if state := f.inviteState(t, invite.ID); state != domain.StateCancelled {
		t.Fatalf("expected force-cancelled, got %s", state)
	}
	if f.memberCount(t, orgID, bob) != 0 {
		t.Fatal("orphaned accept must not add membership")
	}
}

func TestCancelTransitions(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The invitee cannot cancel.
	if err := f.svc.Cancel(context.Background(), bob, invite.ID); err == nil {
		t.Fatal("expected non-admin cancel to fail")
	}

	if err := f.svc.Cancel(context.Background(), alice, invite.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if state := f.inviteState(t, invite.ID); state != domain.StateCancelled {
		t.Fatalf("expected cancelled, got %s", state)
	}

	// Cancelling twice surfaces the dedicated error.
	err = f.svc.Cancel(context.Background(), alice, invite.ID)
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestCancelAcceptedInvite(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	invite, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Respond(context.Background(), bob, invite.ID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	err = f.svc.Cancel(context.Background(), alice, invite.ID)
	if !errors.Is(err, domain.ErrAlreadyAccepted) {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}
}

func TestListForOrganizationExcludesAccepted(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	f.seedUser(t, "Carol", "c@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	accepted, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Respond(context.Background(), bob, accepted.ID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), alice, orgID, "c@x.com"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	invites, err := f.svc.ListForOrganization(context.Background(), alice, orgID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(invites) != 1 {
		t.Fatalf("expected accepted invite excluded, got %d rows", len(invites))
	}
	if invites[0].InviteeEmail != "c@x.com" {
		t.Fatalf("expected carol's invite, got %+v", invites[0])
	}
}

func TestReinviteAfterDecline(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "a@x.com")
	bob := f.seedUser(t, "Bob", "b@x.com")
	orgID := f.seedOrg(t, "Acme", alice)

	first, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Respond(context.Background(), bob, first.ID, false); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	// A resolved invite does not block a fresh one.
	second, err := f.svc.Create(context.Background(), alice, orgID, "b@x.com")
	if err != nil {
		t.Fatalf("re-invite failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new invite row")
	}
}
