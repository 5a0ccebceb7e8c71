package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/domain"
)

type fakeStore struct {
	users map[string]*domain.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*domain.User{}}
}

func (f *fakeStore) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = "u-" + u.Email
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) ByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) UpdateFields(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
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
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

type published struct {
	subject string
	payload any
}

type fakePublisher struct {
	events []published
	err    error
}

func (f *fakePublisher) PublishJSON(ctx context.Context, subject string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{subject: subject, payload: v})
	return nil
}

func TestRegisterHashesPasswordAndPublishesCreated(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewUserSvc(store, pub)

	u, err := svc.Register(context.Background(), "Ada", "Lovelace", "Ada@Example.com", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "USER", u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret")))

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.SubjectUserCreated, pub.events[0].subject)
	ev := pub.events[0].payload.(events.User)
	assert.Equal(t, u.ID, ev.ID)
	assert.Equal(t, u.Password, ev.Password)
}

func TestRegisterSurfacesPublishFailure(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewUserSvc(store, pub)

	u, err := svc.Register(context.Background(), "", "", "x@y.z", "pw", "USER")
	require.Error(t, err)
	// the local mutation committed anyway; callers must see both facts
	require.NotNil(t, u)
	_, storeErr := store.ByID(context.Background(), u.ID)
	assert.NoError(t, storeErr)
}

func TestDeletePublishesTombstone(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewUserSvc(store, pub)

	u, err := svc.Register(context.Background(), "", "", "x@y.z", "pw", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.SubjectUserDeleted, pub.events[1].subject)
	assert.Equal(t, events.Deleted{ID: u.ID}, pub.events[1].payload)
}

func TestDeleteMissingUser(t *testing.T) {
	svc := NewUserSvc(newFakeStore(), &fakePublisher{})
	err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
