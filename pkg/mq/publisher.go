package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher writes domain events to the stream backing a subject.
type Publisher struct {
	client *Client
}

func NewPublisher(c *Client) *Publisher {
	return &Publisher{client: c}
}

// PublishJSON returns once the broker has accepted the message, not once
// subscribers have processed it. When it fails, the caller's local mutation
// has usually already committed; there is no automatic republication, so the
// error must surface as a failed command rather than being swallowed.
func (p *Publisher) PublishJSON(ctx context.Context, subject string, v any) error {
	js, err := p.client.JetStream()
	if err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if _, err := js.Publish(subject, b, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}
