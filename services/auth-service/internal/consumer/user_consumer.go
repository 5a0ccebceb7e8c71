package consumer

import (
	"context"
	"errors"
	"log"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/auth-service/internal/domain"
)

// ReplicaStore is the generic boundary the reconciler mutates the local
// replica through.
type ReplicaStore interface {
	Upsert(ctx context.Context, u *domain.AuthUser) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// UserConsumer keeps the auth replica of users converged with the users
// service. Handlers are idempotent: duplicate deliveries of the same event
// leave the replica unchanged.
type UserConsumer struct {
	store ReplicaStore
}

func NewUserConsumer(store ReplicaStore) *UserConsumer {
	return &UserConsumer{store: store}
}

func (c *UserConsumer) HandleCreated(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.User](data)
	if err != nil || ev.ID == "" {
		log.Printf("[auth] dropping malformed user.created payload: %v", err)
		return nil
	}
	return c.store.Upsert(ctx, &domain.AuthUser{
		ID:       ev.ID,
		Email:    ev.Email,
		Password: ev.Password,
		Role:     ev.Role,
	})
}

func (c *UserConsumer) HandleUpdated(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.User](data)
	if err != nil || ev.ID == "" {
		log.Printf("[auth] dropping malformed user.updated payload: %v", err)
		return nil
	}
	err = c.store.Update(ctx, ev.ID, map[string]any{
		"email":    ev.Email,
		"password": ev.Password,
		"role":     ev.Role,
	})
	if errors.Is(err, domain.ErrNotFound) {
		// the replica may legitimately lag; not a processing failure
		log.Printf("[auth] user %s not found for update", ev.ID)
		return nil
	}
	return err
}

func (c *UserConsumer) HandleDeleted(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.Deleted](data)
	if err != nil || ev.ID == "" {
		log.Printf("[auth] dropping malformed user.deleted payload: %v", err)
		return nil
	}
	err = c.store.Delete(ctx, ev.ID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Printf("[auth] user %s already deleted or not found", ev.ID)
		return nil
	}
	return err
}
