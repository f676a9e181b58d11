package broker

import (
	"context"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamFabric maps the topic topology onto JetStream. Each queue becomes
// a work-queue stream whose MaxAge is the queue TTL; routing happens on the
// publish side, so a message routed to two queues is stored in two streams.
type JetStreamFabric struct {
	js         jetstream.JetStream
	topology   domain.Topology
	maxDeliver int
	ackWait    time.Duration

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

func NewJetStreamFabric(ctx context.Context, js jetstream.JetStream, topology domain.Topology, maxDeliver int, ackWait time.Duration) (*JetStreamFabric, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	if maxDeliver < 1 {
		maxDeliver = 1
	}

	for _, q := range topology.Queues {
		storage := jetstream.FileStorage
		if !q.Durable {
			storage = jetstream.MemoryStorage
		}

		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:        streamName(q.Name),
			Description: fmt.Sprintf("%s bound to %s", q.Name, topology.Exchange.Name),
			Subjects:    []string{subjectPrefix(q.Name) + ".>"},
			Retention:   jetstream.WorkQueuePolicy,
			Storage:     storage,
			MaxAge:      q.TTL,
		})
		if err != nil {
			slog.ErrorContext(ctx, "[jetStreamFabric] NewJetStreamFabric", "createStream:"+q.Name, err)
			return nil, fmt.Errorf("declare queue %s: %w", q.Name, err)
		}
	}

	return &JetStreamFabric{
		js:         js,
		topology:   topology,
		maxDeliver: maxDeliver,
		ackWait:    ackWait,
	}, nil
}

func (f *JetStreamFabric) Publish(ctx context.Context, msg domain.Message) error {
	routed := f.topology.Route(msg.RoutingKey)
	if len(routed) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnroutable, msg.RoutingKey)
	}

	var errs []error
	for _, q := range routed {
		m := nats.NewMsg(subjectPrefix(q.Name) + "." + msg.RoutingKey)
		m.Data = msg.Body
		for k, v := range msg.Headers {
			m.Header.Set(k, v)
		}
		m.Header.Set(domain.HeaderRoutingKey, msg.RoutingKey)

		var opts []jetstream.PublishOpt
		if msg.ID != "" {
			opts = append(opts, jetstream.WithMsgID(msg.ID))
		}

		if _, err := f.js.PublishMsg(ctx, m, opts...); err != nil {
			slog.ErrorContext(ctx, "[jetStreamFabric] Publish", "publishMsg:"+q.Name, err)
			errs = append(errs, fmt.Errorf("publish to %s: %w", q.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Consume attaches a durable consumer to queue. MaxAckPending is 1 so
// deliveries are handled one at a time in stream order.
func (f *JetStreamFabric) Consume(ctx context.Context, queue string, handler domain.DeliveryHandler) error {
	if _, ok := f.topology.Queue(queue); !ok {
		return fmt.Errorf("%w: queue %s", domain.ErrNotFound, queue)
	}

	cons, err := f.js.CreateOrUpdateConsumer(ctx, streamName(queue), jetstream.ConsumerConfig{
		Durable:       consumerName(queue),
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       f.ackWait,
		MaxDeliver:    f.maxDeliver,
		MaxAckPending: 1,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		slog.ErrorContext(ctx, "[jetStreamFabric] Consume", "createConsumer:"+queue, err)
		return err
	}

	cc, err := cons.Consume(func(m jetstream.Msg) {
		f.handle(ctx, queue, m, handler)
	})
	if err != nil {
		slog.ErrorContext(ctx, "[jetStreamFabric] Consume", "consume:"+queue, err)
		return err
	}

	f.mu.Lock()
	f.consumes = append(f.consumes, cc)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		cc.Stop()
	}()
	return nil
}

func (f *JetStreamFabric) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, cc := range f.consumes {
		cc.Stop()
	}
	f.consumes = nil
	return nil
}

func (f *JetStreamFabric) handle(ctx context.Context, queue string, m jetstream.Msg, handler domain.DeliveryHandler) {
	attempt := 1
	if meta, err := m.Metadata(); err == nil {
		attempt = int(meta.NumDelivered)
	}

	d := domain.Delivery{
		Message: deliveryMessage(queue, m.Subject(), m.Headers(), m.Data()),
		Queue:   queue,
		Attempt: attempt,
	}

	var err error
	switch handleDelivery(ctx, handler, d, f.maxDeliver) {
	case settleAck:
		err = m.Ack()
	case settleRetry:
		err = m.Nak()
	case settleDrop:
		err = m.Term()
	}
	if err != nil {
		slog.ErrorContext(ctx, "[jetStreamFabric] handle", "settle:"+queue, err)
	}
}

func deliveryMessage(queue, subject string, header nats.Header, data []byte) domain.Message {
	msg := domain.Message{
		Headers: make(map[string]string, len(header)),
		Body:    data,
	}
	for k := range header {
		msg.Headers[k] = header.Get(k)
	}
	msg.ID = header.Get(nats.MsgIdHdr)
	msg.RoutingKey = header.Get(domain.HeaderRoutingKey)
	if msg.RoutingKey == "" {
		msg.RoutingKey = strings.TrimPrefix(subject, subjectPrefix(queue)+".")
	}
	return msg
}

// Stream names may not contain '.', so "inventory.events.queue" becomes
// "INVENTORY_EVENTS_QUEUE".
func streamName(queue string) string {
	return strings.ToUpper(strings.ReplaceAll(queue, ".", "_"))
}

func subjectPrefix(queue string) string {
	return strings.ToLower(strings.ReplaceAll(queue, ".", "_"))
}

func consumerName(queue string) string {
	return streamName(queue) + "_CONSUMER"
}
