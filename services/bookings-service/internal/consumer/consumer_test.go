package consumer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
)

type fakeReplica struct {
	events map[string]*domain.Event
}

func newFakeReplica() *fakeReplica {
	return &fakeReplica{events: map[string]*domain.Event{}}
}

func (f *fakeReplica) Upsert(ctx context.Context, e *domain.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeReplica) Update(ctx context.Context, id string, fields map[string]any) error {
	e, ok := f.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if v, ok := fields["available_tickets"].(int); ok {
		e.AvailableTickets = v
	}
	if v, ok := fields["title"].(string); ok {
		e.Title = v
	}
	return nil
}

func (f *fakeReplica) Delete(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeConfirmer struct {
	bookings map[string]*domain.Booking
	calls    int
}

func (f *fakeConfirmer) Confirm(ctx context.Context, bookingID string) (*domain.Booking, bool, error) {
	f.calls++
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, false, domain.ErrBookingNotFound
	}
	if b.Status == domain.StatusConfirmed {
		return b, false, nil
	}
	b.Status = domain.StatusConfirmed
	return b, true, nil
}

func TestEventCreatedMirrorsReplica(t *testing.T) {
	store := newFakeReplica()
	c := NewEventConsumer(store)

	data, err := events.Encode(events.Event{
		ID: "ev-1", Title: "Go Conf", Price: 20, AvailableTickets: 50,
		Date: "2026-09-01T18:00:00Z", OrganizerID: "org-1",
	})
	require.NoError(t, err)
	require.NoError(t, c.HandleCreated(context.Background(), data))

	e := store.events["ev-1"]
	require.NotNil(t, e)
	assert.Equal(t, 50, e.AvailableTickets)
	assert.False(t, e.Date.IsZero())
}

func TestEventUpdatedUnknownIDIsAcked(t *testing.T) {
	store := newFakeReplica()
	c := NewEventConsumer(store)

	data, err := events.Encode(events.Event{ID: "ghost", Title: "X"})
	require.NoError(t, err)
	// missing replica row is a warning, not a redelivery loop
	assert.NoError(t, c.HandleUpdated(context.Background(), data))
	assert.Empty(t, store.events)
}

func TestEventDeletedUnknownIDIsAcked(t *testing.T) {
	c := NewEventConsumer(newFakeReplica())
	data, err := events.Encode(events.Deleted{ID: "ghost"})
	require.NoError(t, err)
	assert.NoError(t, c.HandleDeleted(context.Background(), data))
}

func TestEventCreatedMalformedPayloadDropped(t *testing.T) {
	store := newFakeReplica()
	c := NewEventConsumer(store)
	assert.NoError(t, c.HandleCreated(context.Background(), []byte("{not json")))
	assert.Empty(t, store.events)
}

func TestPaymentCompletedConfirmsBooking(t *testing.T) {
	conf := &fakeConfirmer{bookings: map[string]*domain.Booking{
		"b-1": {ID: "b-1", Status: domain.StatusPending},
	}}
	c := NewPaymentConsumer(conf)

	data, err := events.Encode(events.PaymentCompleted{BookingID: "b-1"})
	require.NoError(t, err)
	require.NoError(t, c.HandleCompleted(context.Background(), data))
	assert.Equal(t, domain.StatusConfirmed, conf.bookings["b-1"].Status)
}

func TestPaymentCompletedUnknownBookingIsAcked(t *testing.T) {
	conf := &fakeConfirmer{bookings: map[string]*domain.Booking{}}
	c := NewPaymentConsumer(conf)

	data, err := events.Encode(events.PaymentCompleted{BookingID: "nope"})
	require.NoError(t, err)
	assert.NoError(t, c.HandleCompleted(context.Background(), data))
}

func TestPaymentCompletedDuplicateDeliverySkips(t *testing.T) {
	conf := &fakeConfirmer{bookings: map[string]*domain.Booking{
		"b-1": {ID: "b-1", Status: domain.StatusPending},
	}}
	c := NewPaymentConsumer(conf)

	data, err := events.Encode(events.PaymentCompleted{BookingID: "b-1"})
	require.NoError(t, err)
	require.NoError(t, c.HandleCompleted(context.Background(), data))
	require.NoError(t, c.HandleCompleted(context.Background(), data))
	assert.Equal(t, 2, conf.calls)
	assert.Equal(t, domain.StatusConfirmed, conf.bookings["b-1"].Status)
}

func TestPaymentCompletedMissingBookingIDDropped(t *testing.T) {
	conf := &fakeConfirmer{bookings: map[string]*domain.Booking{}}
	c := NewPaymentConsumer(conf)
	require.NoError(t, c.HandleCompleted(context.Background(), []byte(`{"status":"COMPLETED"}`)))
	assert.Equal(t, 0, conf.calls)
}
