package mq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const fetchWait = 5 * time.Second

// Handler processes one decoded message. A nil return acknowledges the
// message; an error leaves it unacknowledged so the broker redelivers it.
type Handler func(ctx context.Context, data []byte) error

// Loop is a durable per-(service, subject) subscription. Messages are fetched
// and handled one at a time, in stream order; this is the only place ordering
// is enforced, so handlers need no extra locking against their own loop.
type Loop struct {
	client         *Client
	stream         string
	streamSubjects []string
	service        string
	subject        string
	handler        Handler
}

func NewLoop(client *Client, stream string, streamSubjects []string, service, subject string, h Handler) *Loop {
	return &Loop{
		client:         client,
		stream:         stream,
		streamSubjects: streamSubjects,
		service:        service,
		subject:        subject,
		handler:        h,
	}
}

// Durable returns the consumer's cursor identity, e.g. auth-user-created.
func (l *Loop) Durable() string {
	return l.service + "-" + strings.ReplaceAll(l.subject, ".", "-")
}

// Run provisions the stream and consumer, then pulls until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	js, err := l.client.JetStream()
	if err != nil {
		return err
	}
	if err := EnsureStream(js, l.stream, l.streamSubjects); err != nil {
		return err
	}
	durable := l.Durable()
	if err := EnsureConsumer(js, l.stream, durable, l.subject); err != nil {
		return err
	}
	sub, err := js.PullSubscribe(l.subject, durable, nats.BindStream(l.stream))
	if err != nil {
		return fmt.Errorf("pull subscribe %s: %w", l.subject, err)
	}
	defer sub.Unsubscribe()

	log.Printf("[%s] listening to %s (durable=%s)", l.service, l.subject, durable)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		msgs, err := sub.Fetch(1, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch %s: %w", l.subject, err)
		}
		for _, m := range msgs {
			if !l.process(ctx, m.Data) {
				// ask for immediate redelivery instead of waiting out AckWait
				if err := m.Nak(); err != nil {
					log.Printf("[%s] nak %s failed: %v", l.service, l.subject, err)
				}
				continue
			}
			if err := m.Ack(); err != nil {
				log.Printf("[%s] ack %s failed: %v", l.service, l.subject, err)
			}
		}
	}
}

// process reports whether the message should be acknowledged. A handler error
// leaves the message for redelivery; that is the whole retry policy.
func (l *Loop) process(ctx context.Context, data []byte) bool {
	if err := l.handler(ctx, data); err != nil {
		log.Printf("[%s] handle %s failed: %v (left for redelivery)", l.service, l.subject, err)
		return false
	}
	return true
}
