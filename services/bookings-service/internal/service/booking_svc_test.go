package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
)

type fakeBookingStore struct {
	bookings map[string]*domain.Booking
	seq      int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]*domain.Booking{}}
}

func (f *fakeBookingStore) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		f.seq++
		b.ID = fmt.Sprintf("b-%d", f.seq)
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ConfirmIfPending(ctx context.Context, id string) (*domain.Booking, bool, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, false, domain.ErrBookingNotFound
	}
	if b.Status == domain.StatusConfirmed {
		cp := *b
		return &cp, false, nil
	}
	b.Status = domain.StatusConfirmed
	cp := *b
	return &cp, true, nil
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) List(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeEventReader struct {
	events map[string]*domain.Event
}

func (f *fakeEventReader) ByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
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

func (f *fakePublisher) bySubject(subject string) []published {
	var out []published
	for _, p := range f.events {
		if p.subject == subject {
			out = append(out, p)
		}
	}
	return out
}

func newSvc(available int, price float64) (*BookingSvc, *fakeBookingStore, *fakePublisher) {
	store := newFakeBookingStore()
	replica := &fakeEventReader{events: map[string]*domain.Event{
		"ev-1": {ID: "ev-1", Title: "Go Conference", Price: price, AvailableTickets: available},
	}}
	pub := &fakePublisher{}
	return NewBookingSvc(store, replica, pub), store, pub
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, _, pub := newSvc(10, 25.0)

	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u-1", Email: "ada@example.com", EventID: "ev-1", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, 75.0, b.TotalPrice)
	assert.Equal(t, "Go Conference", b.EventTitle)

	created := pub.bySubject(events.SubjectBookingCreated)
	require.Len(t, created, 1)
	ev := created[0].payload.(events.BookingCreated)
	assert.Equal(t, b.ID, ev.ID)
	assert.Equal(t, "ada@example.com", ev.Email)
	assert.Equal(t, "Go Conference", ev.Title)
	assert.Equal(t, domain.StatusPending, ev.Status)

	requested := pub.bySubject(events.SubjectPaymentRequested)
	require.Len(t, requested, 1)
	assert.Equal(t, b.ID, requested[0].payload.(events.PaymentRequested).BookingID)
}

func TestCreateBookingCapacityGuard(t *testing.T) {
	svc, store, pub := newSvc(2, 25.0)

	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u-1", Email: "a@b.c", EventID: "ev-1", Quantity: 3,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientTickets)
	// nothing committed, nothing published
	assert.Empty(t, store.bookings)
	assert.Empty(t, pub.events)
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	svc, _, pub := newSvc(10, 25.0)
	_, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u-1", Email: "a@b.c", EventID: "ev-missing", Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Empty(t, pub.events)
}

func TestCreateBookingTotalPriceFixedAtCreation(t *testing.T) {
	store := newFakeBookingStore()
	replica := &fakeEventReader{events: map[string]*domain.Event{
		"ev-1": {ID: "ev-1", Title: "T", Price: 10, AvailableTickets: 100},
	}}
	pub := &fakePublisher{}
	svc := NewBookingSvc(store, replica, pub)

	b, err := svc.Create(context.Background(), CreateBookingInput{UserID: "u", Email: "e", EventID: "ev-1", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 40.0, b.TotalPrice)

	// a later price change never recomputes the committed total
	replica.events["ev-1"].Price = 99
	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.TotalPrice)
}

func TestSagaPendingToConfirmed(t *testing.T) {
	svc, _, pub := newSvc(10, 20.0)

	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u-1", Email: "a@b.c", EventID: "ev-1", Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, b.Status)

	confirmed, changed, err := svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	// creation event + exactly one confirmation event
	created := pub.bySubject(events.SubjectBookingCreated)
	require.Len(t, created, 2)
	assert.Equal(t, domain.StatusConfirmed, created[1].payload.(events.BookingCreated).Status)
}

func TestSagaDuplicatePaymentCompletedIsIdempotent(t *testing.T) {
	svc, _, pub := newSvc(10, 20.0)
	b, err := svc.Create(context.Background(), CreateBookingInput{
		UserID: "u-1", Email: "a@b.c", EventID: "ev-1", Quantity: 1,
	})
	require.NoError(t, err)

	_, changed, err := svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, changed)

	// redelivered payment.completed must not emit a second confirmation
	got, changed, err := svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Len(t, pub.bySubject(events.SubjectBookingCreated), 2)
}

func TestConfirmUnknownBooking(t *testing.T) {
	svc, _, _ := newSvc(10, 20.0)
	_, _, err := svc.Confirm(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestCreateBookingSurfacesPublishFailure(t *testing.T) {
	store := newFakeBookingStore()
	replica := &fakeEventReader{events: map[string]*domain.Event{
		"ev-1": {ID: "ev-1", Title: "T", Price: 5, AvailableTickets: 10},
	}}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewBookingSvc(store, replica, pub)

	b, err := svc.Create(context.Background(), CreateBookingInput{UserID: "u", Email: "e", EventID: "ev-1", Quantity: 1})
	require.Error(t, err)
	// the booking committed before the publish attempt; the caller sees both
	require.NotNil(t, b)
	_, storeErr := store.ByID(context.Background(), b.ID)
	assert.NoError(t, storeErr)
}
