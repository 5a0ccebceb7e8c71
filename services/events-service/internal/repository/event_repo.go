package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RastaBela/ticketing-system/services/events-service/internal/domain"
)

type EventRepo struct{ db *gorm.DB }

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Event{})
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepo) ByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// updateFields lists every mutable column explicitly; a struct update would
// silently skip zero values, making it impossible to clear a description or
// sell out an event by setting availableTickets to 0.
func updateFields(e *domain.Event) map[string]any {
	return map[string]any{
		"title":             e.Title,
		"description":       e.Description,
		"price":             e.Price,
		"date":              e.Date,
		"available_tickets": e.AvailableTickets,
	}
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	res := r.db.WithContext(ctx).Model(&domain.Event{}).Where("id = ?", e.ID).Updates(updateFields(e))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	var out []domain.Event
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
