package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"inventory-platform/app/domain"
	"log/slog"
)

// InventoryConsumer turns inventory events into notifications.
type InventoryConsumer struct {
	notifications domain.NotificationService
}

func NewInventoryConsumer(notifications domain.NotificationService) *InventoryConsumer {
	return &InventoryConsumer{notifications: notifications}
}

// Register attaches the consumer to both queues of the inventory topology.
func (h *InventoryConsumer) Register(ctx context.Context, consumer domain.MessageConsumer) error {
	if err := consumer.Consume(ctx, domain.InventoryEventsQueue, h.HandleInventoryEvent); err != nil {
		return fmt.Errorf("consume %s: %w", domain.InventoryEventsQueue, err)
	}
	if err := consumer.Consume(ctx, domain.NotificationQueue, h.HandleLowStockAlert); err != nil {
		return fmt.Errorf("consume %s: %w", domain.NotificationQueue, err)
	}
	return nil
}

func (h *InventoryConsumer) HandleInventoryEvent(ctx context.Context, d domain.Delivery) error {
	ev, err := decode(d)
	if err != nil {
		return err
	}
	return settle(d, h.OnInventoryEvent(ctx, ev))
}

func (h *InventoryConsumer) HandleLowStockAlert(ctx context.Context, d domain.Delivery) error {
	ev, err := decode(d)
	if err != nil {
		return err
	}
	return settle(d, h.OnLowStockAlert(ctx, ev))
}

// OnInventoryEvent reports a created or updated item on the console channel.
func (h *InventoryConsumer) OnInventoryEvent(ctx context.Context, ev domain.InventoryEvent) domain.DispatchResult {
	slog.InfoContext(ctx, "[InventoryConsumer] OnInventoryEvent", "itemID", ev.ItemID, "eventType", ev.EventType)

	return h.notifications.Send(ctx, domain.NotificationRequest{
		Message: fmt.Sprintf("Inventory %s: Item '%s' (ID: %d) - Quantity: %d",
			ev.EventType, ev.ItemName, ev.ItemID, ev.Quantity),
		Channel: domain.ChannelConsole,
	})
}

// OnLowStockAlert broadcasts a low stock event to every channel.
func (h *InventoryConsumer) OnLowStockAlert(ctx context.Context, ev domain.InventoryEvent) domain.DispatchResult {
	slog.InfoContext(ctx, "[InventoryConsumer] OnLowStockAlert", "itemID", ev.ItemID, "quantity", ev.Quantity)

	return h.notifications.Send(ctx, domain.NotificationRequest{
		Message: fmt.Sprintf("%s - Current Stock: %d units. Please restock immediately!", ev.Message, ev.Quantity),
		Channel: domain.ChannelAll,
	})
}

// settle fails the delivery when observers matched but none accepted the
// message, so the broker redelivers it. Partial delivery is acknowledged to
// avoid repeating the notification on the observers that succeeded.
func settle(d domain.Delivery, result domain.DispatchResult) error {
	if result.Matched > 0 && result.Delivered == 0 {
		return fmt.Errorf("%w: %s: %d observers failed", domain.ErrUndelivered, d.ID, result.Failed)
	}
	return nil
}

func decode(d domain.Delivery) (domain.InventoryEvent, error) {
	var ev domain.InventoryEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %s: %v", domain.ErrMalformedMessage, d.ID, err)
	}
	if err := ev.Validate(); err != nil {
		return ev, fmt.Errorf("%w: %s: %v", domain.ErrMalformedMessage, d.ID, err)
	}
	return ev, nil
}
