package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/notifications-service/internal/notifier"
)

// BookingConsumer turns booking lifecycle events into user notifications.
// The creation event and the confirmation event share a subject; the status
// field decides which mail, if any, goes out.
type BookingConsumer struct {
	notifier notifier.Notifier
}

func NewBookingConsumer(n notifier.Notifier) *BookingConsumer {
	return &BookingConsumer{notifier: n}
}

func renderConfirmation(ev events.BookingCreated) (subject, body string) {
	subject = fmt.Sprintf("Your booking for %s is confirmed", ev.Title)
	body = fmt.Sprintf(
		"<p>Good news!</p><p>Your booking <b>%s</b> for <b>%s</b> (%d ticket(s), %.2f total) is confirmed.</p>",
		ev.ID, ev.Title, ev.Quantity, ev.TotalPrice,
	)
	return subject, body
}

// HandleBookingCreated sends the confirmation email once a booking reaches
// CONFIRMED. A send failure leaves the message unacked so delivery is retried.
func (c *BookingConsumer) HandleBookingCreated(ctx context.Context, data []byte) error {
	ev, err := events.Decode[events.BookingCreated](data)
	if err != nil || ev.ID == "" {
		log.Printf("[notifications] dropping malformed booking.created payload: %v", err)
		return nil
	}
	if ev.Status != "CONFIRMED" {
		log.Printf("[notifications] booking %s is %s, nothing to send", ev.ID, ev.Status)
		return nil
	}
	if ev.Email == "" {
		log.Printf("[notifications] booking %s has no recipient email", ev.ID)
		return nil
	}
	subject, body := renderConfirmation(ev)
	if err := c.notifier.Notify(ev.Email, subject, body); err != nil {
		return err
	}
	log.Printf("[notifications] confirmation sent for booking %s to %s", ev.ID, ev.Email)
	return nil
}
