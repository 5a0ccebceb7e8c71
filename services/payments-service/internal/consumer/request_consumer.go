package consumer

import (
	"context"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/pkg/mq"
)

type PaymentProcessor interface {
	Process(ctx context.Context, req events.PaymentRequested) error
}

// RequestConsumer listens for payment.requested on a plain subscription.
// Delivery is at-most-once: a request missed while the service is down simply
// stays PENDING until the payment is retried through the API.
type RequestConsumer struct {
	client *mq.Client
	svc    PaymentProcessor
}

func NewRequestConsumer(client *mq.Client, svc PaymentProcessor) *RequestConsumer {
	return &RequestConsumer{client: client, svc: svc}
}

func (c *RequestConsumer) Run(ctx context.Context) error {
	ch := make(chan *nats.Msg, 64)
	sub, err := c.client.Subscribe(events.SubjectPaymentRequested, ch)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	log.Printf("[payments] listening on %s", events.SubjectPaymentRequested)
	return c.consume(ctx, ch)
}

// consume drains the subscription until shutdown. Like the durable loop, a
// cancelled context is a clean stop, not an error.
func (c *RequestConsumer) consume(ctx context.Context, ch <-chan *nats.Msg) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			req, err := events.Decode[events.PaymentRequested](msg.Data)
			if err != nil || req.BookingID == "" {
				log.Printf("[payments] dropping malformed payment.requested payload: %v", err)
				continue
			}
			if err := c.svc.Process(ctx, req); err != nil {
				log.Printf("[payments] process booking %s: %v", req.BookingID, err)
			}
		}
	}
}
