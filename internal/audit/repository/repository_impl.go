package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherkit/gatherkit/internal/audit/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

type entryRow struct {
	ID        snowflake.ID
	Action    string
	Params    []byte
	CreatedAt time.Time
	UserID    *snowflake.ID
	UserName  *string
	UserEmail *string
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID, offset, limit int) ([]domain.Entry, error) {
	var rows []entryRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.action, a.params, a.created_at,
		        u.id AS user_id, u.name AS user_name, u.email AS user_email
		 FROM audit_logs a
		 LEFT JOIN users u ON u.id = a.user_id
		 WHERE a.org_id = ?
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT ? OFFSET ?`,
		orgID,
		limit,
		offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entry := domain.Entry{
			ID:        row.ID.String(),
			Action:    row.Action,
			Params:    decodeParams(row.Params),
			CreatedAt: row.CreatedAt,
		}
		if row.UserID != nil {
			entry.User = &domain.EntryUser{
				ID:    row.UserID.String(),
				Name:  deref(row.UserName),
				Email: deref(row.UserEmail),
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
