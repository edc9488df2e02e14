package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherkit/gatherkit/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, slug, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		org.Description,
		org.CreatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, slug, description, created_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &org, nil
}

// Delete removes the organization and everything it owns. The schema
// also cascades via foreign keys; the explicit deletes keep the unit
// testable on databases without enforcement enabled.
func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			`DELETE FROM events WHERE org_id = ?`,
			`DELETE FROM organization_invites WHERE org_id = ?`,
			`DELETE FROM organization_members WHERE org_id = ?`,
			`DELETE FROM organizations WHERE id = ?`,
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) AddMember(ctx context.Context, member *domain.OrganizationMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organization_members (org_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?)`,
		member.OrgID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	).Error
}

func (r *repository) GetMember(ctx context.Context, orgID, userID snowflake.ID) (*domain.OrganizationMember, error) {
	var member domain.OrganizationMember
	err := r.db.WithContext(ctx).Raw(
		`SELECT org_id, user_id, role, joined_at
		 FROM organization_members
		 WHERE org_id = ? AND user_id = ?`,
		orgID,
		userID,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.UserID == 0 {
		return nil, domain.ErrNotMember
	}
	return &member, nil
}

func (r *repository) RemoveMember(ctx context.Context, orgID, userID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM organization_members WHERE org_id = ? AND user_id = ?`,
		orgID,
		userID,
	)
	return res.RowsAffected, res.Error
}

type memberRow struct {
	UserID   snowflake.ID
	Name     string
	Email    string
	Role     string
	JoinedAt time.Time
}

func (r *repository) ListMembers(ctx context.Context, orgID snowflake.ID) ([]domain.Member, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT m.user_id, u.name, u.email, m.role, m.joined_at
		 FROM organization_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.org_id = ?
		 ORDER BY m.joined_at ASC`,
		orgID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.Member{
			UserID:   row.UserID.String(),
			Name:     row.Name,
			Email:    row.Email,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

type membershipRow struct {
	OrgID    snowflake.ID
	Name     string
	Slug     string
	Role     string
	JoinedAt time.Time
}

func (r *repository) ListMembershipsByUser(ctx context.Context, userID snowflake.ID) ([]domain.Membership, error) {
	var rows []membershipRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT o.id AS org_id, o.name, o.slug, m.role, m.joined_at
		 FROM organizations o
		 JOIN organization_members m ON m.org_id = o.id
		 WHERE m.user_id = ?
		 ORDER BY o.created_at ASC`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	memberships := make([]domain.Membership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, domain.Membership{
			OrgID:    row.OrgID.String(),
			Name:     row.Name,
			Slug:     row.Slug,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return memberships, nil
}
