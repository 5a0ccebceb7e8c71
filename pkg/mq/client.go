package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Client owns the single NATS connection of a process. The connection is
// established lazily on first use and reused by every publisher and consumer
// loop; it is safe for concurrent use. A failed Connect is fatal to the
// operation that triggered it, callers must not proceed past it.
type Client struct {
	url string

	mu sync.Mutex
	nc *nats.Conn
	js nats.JetStreamContext
}

func NewClient(url string) *Client {
	return &Client{url: url}
}

// Connect returns the memoized connection, dialing once per process lifetime.
func (c *Client) Connect() (*nats.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nc != nil && !c.nc.IsClosed() {
		return c.nc, nil
	}
	nc, err := nats.Connect(c.url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	c.nc = nc
	c.js = js
	return c.nc, nil
}

// JetStream returns the JetStream context of the process connection.
func (c *Client) JetStream() (nats.JetStreamContext, error) {
	if _, err := c.Connect(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.js, nil
}

// Subscribe opens a plain, non-durable subscription. Delivery is at-most-once;
// use a Loop where durability is required.
func (c *Client) Subscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error) {
	nc, err := c.Connect()
	if err != nil {
		return nil, err
	}
	return nc.ChanSubscribe(subject, ch)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
		c.js = nil
	}
}
