package consumer

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastaBela/ticketing-system/pkg/events"
)

type fakeProcessor struct {
	got    []events.PaymentRequested
	cancel context.CancelFunc
}

func (f *fakeProcessor) Process(ctx context.Context, req events.PaymentRequested) error {
	f.got = append(f.got, req)
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}

func TestConsumeProcessesRequestAndStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := &fakeProcessor{cancel: cancel}
	c := &RequestConsumer{svc: proc}

	data, err := events.Encode(events.PaymentRequested{BookingID: "b-1", UserID: "u-1", Amount: 75})
	require.NoError(t, err)

	ch := make(chan *nats.Msg, 1)
	ch <- &nats.Msg{Data: data}

	// shutdown after the message is handled must look like a clean stop
	assert.NoError(t, c.consume(ctx, ch))
	require.Len(t, proc.got, 1)
	assert.Equal(t, "b-1", proc.got[0].BookingID)
}

func TestConsumeDropsMalformedRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := &fakeProcessor{}
	c := &RequestConsumer{svc: proc}

	ch := make(chan *nats.Msg, 1)
	ch <- &nats.Msg{Data: []byte("{not json")}
	cancel()

	// drained or cancelled, never an error; the bad payload never reaches
	// the processor
	assert.NoError(t, c.consume(ctx, ch))
	assert.Empty(t, proc.got)
}
