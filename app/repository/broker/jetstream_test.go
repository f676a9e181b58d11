package broker

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJetStream(t *testing.T) jetstream.JetStream {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url, nats.Timeout(time.Second))
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	return js
}

func testTopology() domain.Topology {
	suffix := fmt.Sprintf("t%d", time.Now().UnixNano())
	events := "test.events." + suffix
	alerts := "test.alerts." + suffix

	return domain.Topology{
		Exchange: domain.Exchange{Name: "test.exchange", Kind: domain.ExchangeTopic},
		Queues: []domain.Queue{
			{Name: events, TTL: time.Hour},
			{Name: alerts, TTL: time.Minute},
		},
		Bindings: []domain.Binding{
			{Queue: events, Pattern: "inventory.created"},
			{Queue: events, Pattern: "inventory.updated"},
			{Queue: alerts, Pattern: "inventory.lowstock"},
		},
	}
}

func TestJetStreamFabric_PublishConsume(t *testing.T) {
	js := getJetStream(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topology := testTopology()
	f, err := NewJetStreamFabric(ctx, js, topology, 3, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		f.Close()
		for _, q := range topology.Queues {
			js.DeleteStream(context.Background(), streamName(q.Name))
		}
	})

	eventsQueue := topology.Queues[0].Name
	for i := 0; i < 5; i++ {
		require.NoError(t, f.Publish(ctx, domain.Message{
			ID:         fmt.Sprintf("msg-%d", i),
			RoutingKey: domain.RoutingKeyCreated,
			Headers:    map[string]string{domain.HeaderRequestID: "req-js"},
			Body:       []byte(fmt.Sprintf("%d", i)),
		}))
	}

	received := make(chan domain.Delivery, 5)
	require.NoError(t, f.Consume(ctx, eventsQueue, func(ctx context.Context, d domain.Delivery) error {
		received <- d
		return nil
	}))

	for i := 0; i < 5; i++ {
		select {
		case d := <-received:
			assert.Equal(t, fmt.Sprintf("%d", i), string(d.Body))
			assert.Equal(t, domain.RoutingKeyCreated, d.RoutingKey)
			assert.Equal(t, fmt.Sprintf("msg-%d", i), d.ID)
			assert.Equal(t, "req-js", d.Headers[domain.HeaderRequestID])
		case <-ctx.Done():
			t.Fatal("timed out waiting for deliveries")
		}
	}
}

func TestJetStreamFabric_Unroutable(t *testing.T) {
	js := getJetStream(t)
	ctx := context.Background()

	topology := testTopology()
	f, err := NewJetStreamFabric(ctx, js, topology, 3, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, q := range topology.Queues {
			js.DeleteStream(context.Background(), streamName(q.Name))
		}
	})

	err = f.Publish(ctx, domain.Message{RoutingKey: "inventory.deleted", Body: []byte("{}")})
	assert.ErrorIs(t, err, domain.ErrUnroutable)
}
