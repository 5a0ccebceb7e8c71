package consumer

import (
	"context"
	"errors"
	"log"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
)

type BookingConfirmer interface {
	Confirm(ctx context.Context, bookingID string) (*domain.Booking, bool, error)
}

// PaymentConsumer drives the PENDING -> CONFIRMED transition when the
// payments service reports completion.
type PaymentConsumer struct {
	svc BookingConfirmer
}

func NewPaymentConsumer(svc BookingConfirmer) *PaymentConsumer {
	return &PaymentConsumer{svc: svc}
}

func (c *PaymentConsumer) HandleCompleted(ctx context.Context, data []byte) error {
	// both the minimal and the rich payment.completed shapes decode here
	ev, err := events.Decode[events.PaymentCompleted](data)
	if err != nil || ev.BookingID == "" {
		log.Printf("[bookings] dropping malformed payment.completed payload: %v", err)
		return nil
	}
	b, changed, err := c.svc.Confirm(ctx, ev.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			log.Printf("[bookings] payment completed for unknown booking %s", ev.BookingID)
			return nil
		}
		return err
	}
	if !changed {
		log.Printf("[bookings] booking %s already confirmed, skipping", b.ID)
		return nil
	}
	log.Printf("[bookings] booking %s confirmed", b.ID)
	return nil
}
