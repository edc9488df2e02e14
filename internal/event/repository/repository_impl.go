package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherkit/gatherkit/internal/event/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO events (id, org_id, title, description, body, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.OrgID,
		event.Title,
		event.Description,
		event.Body,
		event.Published,
		event.CreatedAt,
		event.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, description, body, published, created_at, updated_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(&event).Error
	if err != nil {
		return nil, err
	}
	if event.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE events
		 SET title = ?, description = ?, body = ?, published = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title,
		event.Description,
		event.Body,
		event.Published,
		event.UpdatedAt,
		event.ID,
	).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM events WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

func (r *repository) ListPublished(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, description, body, published, created_at, updated_at
		 FROM events
		 WHERE published = ?
		 ORDER BY created_at DESC`,
		true,
	).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, description, body, published, created_at, updated_at
		 FROM events
		 WHERE org_id = ?
		 ORDER BY created_at DESC`,
		orgID,
	).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
