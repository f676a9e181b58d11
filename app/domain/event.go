package domain

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type EventType string

const (
	EventCreated  EventType = "CREATED"
	EventUpdated  EventType = "UPDATED"
	EventLowStock EventType = "LOW_STOCK"
)

const (
	RoutingKeyCreated  = "inventory.created"
	RoutingKeyUpdated  = "inventory.updated"
	RoutingKeyLowStock = "inventory.lowstock"
)

// RoutingKey returns the exchange routing key for the event type, or "" for
// an unknown type.
func (t EventType) RoutingKey() string {
	switch t {
	case EventCreated:
		return RoutingKeyCreated
	case EventUpdated:
		return RoutingKeyUpdated
	case EventLowStock:
		return RoutingKeyLowStock
	default:
		return ""
	}
}

func (t EventType) Valid() bool {
	return t.RoutingKey() != ""
}

// InventoryEvent is the message body carried on the inventory exchange. It is
// treated as immutable once built by an EventClock.
type InventoryEvent struct {
	ItemID     int64     `json:"itemId"`
	ItemName   string    `json:"itemName"`
	Quantity   int64     `json:"quantity"`
	CategoryID int64     `json:"categoryId"`
	EventType  EventType `json:"eventType"`
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
}

func (e InventoryEvent) Validate() error {
	if e.ItemID <= 0 {
		return fmt.Errorf("%w: event without item id", ErrValidation)
	}
	if e.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d", ErrValidation, e.Quantity)
	}
	if !e.EventType.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, e.EventType)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: event without timestamp", ErrValidation)
	}
	return nil
}

// EventClock stamps events with UTC times that never go backwards within a
// process, even if the wall clock does.
type EventClock struct {
	mu    sync.Mutex
	now   func() time.Time
	start time.Time
	last  time.Time
}

func NewEventClock() *EventClock {
	return NewEventClockWithSource(time.Now)
}

func NewEventClockWithSource(now func() time.Time) *EventClock {
	start := now().UTC()
	return &EventClock{now: now, start: start, last: start}
}

func (c *EventClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

func (c *EventClock) Start() time.Time {
	return c.start
}

func (c *EventClock) NewEvent(eventType EventType, item Item, message string) InventoryEvent {
	return InventoryEvent{
		ItemID:     item.ID,
		ItemName:   item.Name,
		Quantity:   item.Quantity,
		CategoryID: item.CategoryID,
		EventType:  eventType,
		Timestamp:  c.Now(),
		Message:    message,
	}
}

// EventPublisher hands inventory events to the exchange. Delivery is best
// effort: none of the methods report failure to the caller.
type EventPublisher interface {
	PublishCreated(ctx context.Context, event InventoryEvent)
	PublishUpdated(ctx context.Context, event InventoryEvent)
	PublishLowStock(ctx context.Context, event InventoryEvent)
}
