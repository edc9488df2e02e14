package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherkit/gatherkit/internal/invite/domain"
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

func (r *repository) Create(ctx context.Context, invite *domain.Invite) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organization_invites (id, org_id, user_id, state, invited_by, invited_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.OrgID,
		invite.UserID,
		invite.State,
		invite.InvitedBy,
		invite.InvitedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, state, invited_by, invited_at
		 FROM organization_invites WHERE id = ?`,
		id,
	).Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	if invite.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &invite, nil
}

func (r *repository) FindPending(ctx context.Context, orgID, userID snowflake.ID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, state, invited_by, invited_at
		 FROM organization_invites
		 WHERE org_id = ? AND user_id = ? AND state = ?`,
		orgID,
		userID,
		domain.StatePending,
	).Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	if invite.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &invite, nil
}

func (r *repository) UpdateState(ctx context.Context, id snowflake.ID, fromState, toState string) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organization_invites SET state = ? WHERE id = ? AND state = ?`,
		toState,
		id,
		fromState,
	)
	return res.RowsAffected, res.Error
}

type userInviteRow struct {
	ID          snowflake.ID
	OrgID       snowflake.ID
	OrgName     string
	State       string
	InviterName string
	InvitedAt   time.Time
}

func (r *repository) ListPendingByUser(ctx context.Context, userID snowflake.ID) ([]domain.UserInvite, error) {
	var rows []userInviteRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT i.id, i.org_id, o.name AS org_name, i.state,
		        u.name AS inviter_name, i.invited_at
		 FROM organization_invites i
		 JOIN organizations o ON o.id = i.org_id
		 LEFT JOIN users u ON u.id = i.invited_by
		 WHERE i.user_id = ? AND i.state = ?
		 ORDER BY i.invited_at DESC`,
		userID,
		domain.StatePending,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	invites := make([]domain.UserInvite, 0, len(rows))
	for _, row := range rows {
		invites = append(invites, domain.UserInvite{
			ID:          row.ID.String(),
			OrgID:       row.OrgID.String(),
			OrgName:     row.OrgName,
			State:       row.State,
			InviterName: row.InviterName,
			InvitedAt:   row.InvitedAt,
		})
	}
	return invites, nil
}

type orgInviteRow struct {
	ID           snowflake.ID
	UserID       snowflake.ID
	InviteeName  string
	InviteeEmail string
	State        string
	InvitedAt    time.Time
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.OrgInvite, error) {
	var rows []orgInviteRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT i.id, i.user_id, u.name AS invitee_name, u.email AS invitee_email,
		        i.state, i.invited_at
		 FROM organization_invites i
		 JOIN users u ON u.id = i.user_id
		 WHERE i.org_id = ? AND i.state <> ?
		 ORDER BY i.invited_at DESC`,
		orgID,
		domain.StateAccepted,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	invites := make([]domain.OrgInvite, 0, len(rows))
	for _, row := range rows {
		invites = append(invites, domain.OrgInvite{
			ID:           row.ID.String(),
			UserID:       row.UserID.String(),
			InviteeName:  row.InviteeName,
			InviteeEmail: row.InviteeEmail,
			State:        row.State,
			InvitedAt:    row.InvitedAt,
		})
	}
	return invites, nil
}
