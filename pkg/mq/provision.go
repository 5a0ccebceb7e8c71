package mq

import (
	"errors"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

type streamAdder interface {
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
}

type consumerAdder interface {
	AddConsumer(stream string, cfg *nats.ConsumerConfig, opts ...nats.JSOpt) (*nats.ConsumerInfo, error)
}

// EnsureStream asserts that a durable stream exists for the given subjects.
// AddStream is idempotent when the existing definition matches, so the loser
// of a creation race between instances gets plain success; the name-in-use
// error fires only when the broker already holds a different definition. That
// conflict is reported and the broker's definition kept.
func EnsureStream(js streamAdder, name string, subjects []string) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: subjects,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		log.Printf("[mq] warning: stream %s exists with a conflicting definition (wanted subjects %v), keeping the broker's", name, subjects)
		return nil
	}
	return fmt.Errorf("ensure stream %s: %w", name, err)
}

// consumerConfig is the one definition of a durable cursor. MaxAckPending of 1
// means an unacknowledged message blocks delivery of its successors, so a
// failed message is always redelivered before anything newer is handled.
func consumerConfig(durable, filterSubject string) *nats.ConsumerConfig {
	return &nats.ConsumerConfig{
		Durable:       durable,
		AckPolicy:     nats.AckExplicitPolicy,
		FilterSubject: filterSubject,
		MaxAckPending: 1,
	}
}

// EnsureConsumer asserts a durable, explicit-ack consumer on stream. The
// durable name is the consumer's cursor identity and must stay stable across
// restarts. Conflicts are handled like EnsureStream's.
func EnsureConsumer(js consumerAdder, stream, durable, filterSubject string) error {
	_, err := js.AddConsumer(stream, consumerConfig(durable, filterSubject))
	if err == nil {
		return nil
	}
	if errors.Is(err, nats.ErrConsumerNameAlreadyInUse) {
		log.Printf("[mq] warning: consumer %s on %s exists with a conflicting definition, keeping the broker's", durable, stream)
		return nil
	}
	return fmt.Errorf("ensure consumer %s on %s: %w", durable, stream, err)
}
