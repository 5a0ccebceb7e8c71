package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastaBela/ticketing-system/pkg/events"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Notify(to, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func encode(t *testing.T, ev events.BookingCreated) []byte {
	t.Helper()
	b, err := events.Encode(ev)
	require.NoError(t, err)
	return b
}

func TestConfirmedBookingSendsMail(t *testing.T) {
	n := &fakeNotifier{}
	c := NewBookingConsumer(n)

	err := c.HandleBookingCreated(context.Background(), encode(t, events.BookingCreated{
		ID: "b-1", Title: "Go Conference", Quantity: 2, TotalPrice: 50,
		Status: "CONFIRMED", Email: "ada@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com"}, n.sent)
}

func TestPendingBookingSendsNothing(t *testing.T) {
	n := &fakeNotifier{}
	c := NewBookingConsumer(n)

	err := c.HandleBookingCreated(context.Background(), encode(t, events.BookingCreated{
		ID: "b-1", Status: "PENDING", Email: "ada@example.com",
	}))
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestSendFailureLeavesMessageForRedelivery(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	c := NewBookingConsumer(n)

	err := c.HandleBookingCreated(context.Background(), encode(t, events.BookingCreated{
		ID: "b-1", Status: "CONFIRMED", Email: "ada@example.com",
	}))
	assert.Error(t, err)
}

func TestMalformedPayloadDropped(t *testing.T) {
	n := &fakeNotifier{}
	c := NewBookingConsumer(n)
	assert.NoError(t, c.HandleBookingCreated(context.Background(), []byte("{oops")))
	assert.Empty(t, n.sent)
}

func TestMissingEmailDropped(t *testing.T) {
	n := &fakeNotifier{}
	c := NewBookingConsumer(n)
	err := c.HandleBookingCreated(context.Background(), encode(t, events.BookingCreated{
		ID: "b-1", Status: "CONFIRMED",
	}))
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}
