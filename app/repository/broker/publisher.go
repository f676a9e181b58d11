package broker

import (
	"context"
	"encoding/json"
	"inventory-platform/app/domain"
	"inventory-platform/pkg"
	"inventory-platform/pkg/ctxutil"
	"inventory-platform/pkg/metrics"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/attribute"
)

type PublisherConfig struct {
	BufferSize     int
	RetryAttempts  int
	RetryDelay     time.Duration
	PublishTimeout time.Duration
}

// InventoryEventPublisher is a fire-and-forget domain.EventPublisher. Events
// are queued on a bounded buffer and sent by a single background goroutine,
// so they reach the broker in the order they were published. Failures are
// logged and counted; the caller never sees them.
type InventoryEventPublisher struct {
	broker domain.MessageBroker
	cfg    PublisherConfig

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Message
	done   chan struct{}
}

func NewInventoryEventPublisher(broker domain.MessageBroker, cfg PublisherConfig) *InventoryEventPublisher {
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	p := &InventoryEventPublisher{
		broker: broker,
		cfg:    cfg,
		queue:  make(chan domain.Message, cfg.BufferSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *InventoryEventPublisher) PublishCreated(ctx context.Context, event domain.InventoryEvent) {
	p.publish(ctx, domain.EventCreated, event)
}

func (p *InventoryEventPublisher) PublishUpdated(ctx context.Context, event domain.InventoryEvent) {
	p.publish(ctx, domain.EventUpdated, event)
}

func (p *InventoryEventPublisher) PublishLowStock(ctx context.Context, event domain.InventoryEvent) {
	p.publish(ctx, domain.EventLowStock, event)
}

// Close stops accepting events and waits until the buffered ones have been
// sent or ctx ends.
func (p *InventoryEventPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *InventoryEventPublisher) publish(ctx context.Context, eventType domain.EventType, event domain.InventoryEvent) {
	routingKey := eventType.RoutingKey()

	if event.EventType != eventType {
		slog.ErrorContext(ctx, "[eventPublisher] publish", "eventTypeMismatch", event.EventType, "expected", eventType)
		p.count(ctx, routingKey, metrics.OutcomeDropped)
		return
	}
	if err := event.Validate(); err != nil {
		slog.ErrorContext(ctx, "[eventPublisher] publish", "validate", err)
		p.count(ctx, routingKey, metrics.OutcomeDropped)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "[eventPublisher] publish", "json.Marshal", err)
		p.count(ctx, routingKey, metrics.OutcomeDropped)
		return
	}

	msg := domain.Message{
		RoutingKey: routingKey,
		Headers:    map[string]string{},
		Body:       body,
	}
	if id, err := uuid.NewV4(); err == nil {
		msg.ID = id.String()
	} else {
		slog.WarnContext(ctx, "[eventPublisher] publish", "uuid.NewV4", err)
	}
	if reqID := ctxutil.GetRequestID(ctx); reqID != "" {
		msg.Headers[domain.HeaderRequestID] = reqID
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		slog.WarnContext(ctx, "[eventPublisher] publish", "closed", routingKey, "itemID", event.ItemID)
		p.count(ctx, routingKey, metrics.OutcomeDropped)
		return
	}

	select {
	case p.queue <- msg:
	default:
		slog.WarnContext(ctx, "[eventPublisher] publish", "bufferFull", routingKey, "itemID", event.ItemID)
		p.count(ctx, routingKey, metrics.OutcomeDropped)
	}
}

func (p *InventoryEventPublisher) run() {
	defer close(p.done)

	for msg := range p.queue {
		p.send(msg)
	}
}

func (p *InventoryEventPublisher) send(msg domain.Message) {
	ctx := context.Background()
	if reqID := msg.Headers[domain.HeaderRequestID]; reqID != "" {
		ctx = ctxutil.WithRequestID(ctx, reqID)
	}

	err := pkg.Retry(ctx, p.cfg.RetryAttempts+1, p.cfg.RetryDelay, func() error {
		sendCtx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
		defer cancel()
		return p.broker.Publish(sendCtx, msg)
	})
	if err != nil {
		slog.ErrorContext(ctx, "[eventPublisher] send", "routingKey", msg.RoutingKey, "messageID", msg.ID, "publish", err)
		p.count(ctx, msg.RoutingKey, metrics.OutcomeFailed)
		return
	}

	slog.InfoContext(ctx, "[eventPublisher] send", "routingKey", msg.RoutingKey, "messageID", msg.ID)
	p.count(ctx, msg.RoutingKey, metrics.OutcomeOK)
}

func (p *InventoryEventPublisher) count(ctx context.Context, routingKey, outcome string) {
	metrics.Inc(ctx, metrics.EventsPublished,
		attribute.String("routing_key", routingKey),
		attribute.String("outcome", outcome))
}
