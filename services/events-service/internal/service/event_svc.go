package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/domain"
)

var ErrNotOwner = errors.New("only the organizer of the event can modify it")

type EventStore interface {
	Create(ctx context.Context, e *domain.Event) error
	ByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Event, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, subject string, v any) error
}

type EventSvc struct {
	repo EventStore
	pub  EventPublisher
}

func NewEventSvc(r EventStore, pub EventPublisher) *EventSvc {
	return &EventSvc{repo: r, pub: pub}
}

// eventPayload mirrors every field; consumers each read a subset but the
// producer never narrows the schema.
func eventPayload(e *domain.Event) events.Event {
	return events.Event{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Price:            e.Price,
		Date:             e.Date.UTC().Format(time.RFC3339),
		AvailableTickets: e.AvailableTickets,
		OrganizerID:      e.OrganizerID,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CreateEventInput struct {
	Title            string
	Description      string
	Price            float64
	Date             time.Time
	AvailableTickets int
	OrganizerID      string
}

func (s *EventSvc) Create(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	e := &domain.Event{
		Title:            in.Title,
		Description:      in.Description,
		Price:            in.Price,
		Date:             in.Date.UTC(),
		AvailableTickets: in.AvailableTickets,
		OrganizerID:      in.OrganizerID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectEventCreated, eventPayload(e)); err != nil {
		return e, fmt.Errorf("event %s created but event not published: %w", e.ID, err)
	}
	return e, nil
}

func (s *EventSvc) Update(ctx context.Context, organizerID string, e *domain.Event) (*domain.Event, error) {
	existing, err := s.repo.ByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != organizerID {
		return nil, ErrNotOwner
	}
	e.OrganizerID = existing.OrganizerID
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	updated, err := s.repo.ByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectEventUpdated, eventPayload(updated)); err != nil {
		return updated, fmt.Errorf("event %s updated but event not published: %w", e.ID, err)
	}
	return updated, nil
}

func (s *EventSvc) Delete(ctx context.Context, organizerID, id string) error {
	existing, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OrganizerID != organizerID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectEventDeleted, events.Deleted{ID: id}); err != nil {
		return fmt.Errorf("event %s deleted but event not published: %w", id, err)
	}
	return nil
}

func (s *EventSvc) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.ByID(ctx, id)
}

func (s *EventSvc) List(ctx context.Context) ([]domain.Event, error) {
	return s.repo.List(ctx)
}
