package consumer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastaBela/ticketing-system/services/auth-service/internal/domain"
)

type fakeReplica struct {
	users map[string]domain.AuthUser
}

func newFakeReplica() *fakeReplica {
	return &fakeReplica{users: map[string]domain.AuthUser{}}
}

func (f *fakeReplica) Upsert(ctx context.Context, u *domain.AuthUser) error {
	f.users[u.ID] = *u
	return nil
}

func (f *fakeReplica) Update(ctx context.Context, id string, fields map[string]any) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["password"].(string); ok {
		u.Password = v
	}
	if v, ok := fields["role"].(string); ok {
		u.Role = v
	}
	f.users[id] = u
	return nil
}

func (f *fakeReplica) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func TestHandleCreatedUpsertIsIdempotent(t *testing.T) {
	store := newFakeReplica()
	c := NewUserConsumer(store)
	msg := []byte(`{"id":"u1","email":"a@b.c","password":"hash","role":"USER"}`)

	require.NoError(t, c.HandleCreated(context.Background(), msg))
	first := store.users["u1"]

	// duplicate delivery must converge on the same state
	require.NoError(t, c.HandleCreated(context.Background(), msg))
	assert.Equal(t, first, store.users["u1"])
	assert.Len(t, store.users, 1)
}

func TestHandleCreatedExistingIDIsReplaced(t *testing.T) {
	store := newFakeReplica()
	store.users["u1"] = domain.AuthUser{ID: "u1", Email: "old@b.c", Password: "old", Role: "USER"}
	c := NewUserConsumer(store)

	require.NoError(t, c.HandleCreated(context.Background(), []byte(`{"id":"u1","email":"new@b.c","password":"new","role":"ADMIN"}`)))
	assert.Equal(t, "new@b.c", store.users["u1"].Email)
	assert.Equal(t, "ADMIN", store.users["u1"].Role)
}

func TestHandleUpdatedMissingUserIsAcknowledged(t *testing.T) {
	c := NewUserConsumer(newFakeReplica())
	// out-of-order relative to a missed create: non-fatal, message acked
	err := c.HandleUpdated(context.Background(), []byte(`{"id":"ghost","email":"g@b.c","password":"h","role":"USER"}`))
	assert.NoError(t, err)
}

func TestHandleDeletedTwice(t *testing.T) {
	store := newFakeReplica()
	store.users["u1"] = domain.AuthUser{ID: "u1"}
	c := NewUserConsumer(store)
	msg := []byte(`{"id":"u1"}`)

	require.NoError(t, c.HandleDeleted(context.Background(), msg))
	assert.NotContains(t, store.users, "u1")

	// second delivery logs a miss but must not fail the loop
	require.NoError(t, c.HandleDeleted(context.Background(), msg))
	assert.NotContains(t, store.users, "u1")
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	store := newFakeReplica()
	c := NewUserConsumer(store)
	assert.NoError(t, c.HandleCreated(context.Background(), []byte(`{broken`)))
	assert.NoError(t, c.HandleUpdated(context.Background(), []byte(`{}`)))
	assert.Empty(t, store.users)
}
