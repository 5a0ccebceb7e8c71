package consumer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
)

type EventReplicaStore interface {
	Upsert(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// EventConsumer mirrors the events service's entities into the local replica
// so booking creation can check capacity without a cross-service call.
type EventConsumer struct {
	store EventReplicaStore
}

func NewEventConsumer(store EventReplicaStore) *EventConsumer {
	return &EventConsumer{store: store}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *EventConsumer) HandleCreated(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.Event](data)
	if err != nil || ev.ID == "" {
		log.Printf("[bookings] dropping malformed event.created payload: %v", err)
		return nil
	}
	return c.store.Upsert(ctx, &domain.Event{
		ID:               ev.ID,
		Title:            ev.Title,
		Description:      ev.Description,
		Price:            ev.Price,
		Date:             parseTime(ev.Date),
		AvailableTickets: ev.AvailableTickets,
		OrganizerID:      ev.OrganizerID,
		CreatedAt:        parseTime(ev.CreatedAt),
	})
}

func (c *EventConsumer) HandleUpdated(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.Event](data)
	if err != nil || ev.ID == "" {
		log.Printf("[bookings] dropping malformed event.updated payload: %v", err)
		return nil
	}
	err = c.store.Update(ctx, ev.ID, map[string]any{
		"title":             ev.Title,
		"description":       ev.Description,
		"price":             ev.Price,
		"date":              parseTime(ev.Date),
		"available_tickets": ev.AvailableTickets,
		"organizer_id":      ev.OrganizerID,
	})
	if errors.Is(err, domain.ErrEventNotFound) {
		log.Printf("[bookings] event %s not found for update", ev.ID)
		return nil
	}
	return err
}

func (c *EventConsumer) HandleDeleted(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.Deleted](data)
	if err != nil || ev.ID == "" {
		log.Printf("[bookings] dropping malformed event.deleted payload: %v", err)
		return nil
	}
	err = c.store.Delete(ctx, ev.ID)
	if errors.Is(err, domain.ErrEventNotFound) {
		log.Printf("[bookings] event %s already deleted or not found", ev.ID)
		return nil
	}
	return err
}
