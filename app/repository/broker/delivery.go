package broker

import (
	"context"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/pkg/ctxutil"
	"inventory-platform/pkg/metrics"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

type settlement int

const (
	settleAck settlement = iota
	settleRetry
	settleDrop
)

func (s settlement) String() string {
	switch s {
	case settleAck:
		return metrics.OutcomeOK
	case settleRetry:
		return "retry"
	default:
		return metrics.OutcomeDropped
	}
}

// settle decides what happens to a delivery after its handler returned err.
// Failed deliveries are redelivered until maxDeliver attempts have been made;
// malformed ones are dropped straight away since retrying cannot fix them.
func settle(err error, attempt, maxDeliver int) settlement {
	switch {
	case err == nil:
		return settleAck
	case errors.Is(err, domain.ErrMalformedMessage):
		return settleDrop
	case attempt >= maxDeliver:
		return settleDrop
	default:
		return settleRetry
	}
}

// handleDelivery runs handler with the request id of the original request
// restored on ctx, turning a panic into an error so one bad message cannot
// kill the consumer loop.
func handleDelivery(ctx context.Context, handler domain.DeliveryHandler, d domain.Delivery, maxDeliver int) (s settlement) {
	if reqID := d.Headers[domain.HeaderRequestID]; reqID != "" {
		ctx = ctxutil.WithRequestID(ctx, reqID)
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return handler(ctx, d)
	}()

	s = settle(err, d.Attempt, maxDeliver)
	switch s {
	case settleRetry:
		slog.WarnContext(ctx, "[broker] handleDelivery", "queue", d.Queue, "messageID", d.ID,
			"attempt", d.Attempt, "redeliver", err)
	case settleDrop:
		slog.ErrorContext(ctx, "[broker] handleDelivery", "queue", d.Queue, "messageID", d.ID,
			"attempt", d.Attempt, "drop", err)
	}

	metrics.Inc(ctx, metrics.DeliveriesHandled,
		attribute.String("queue", d.Queue),
		attribute.String("outcome", s.String()))
	return s
}

func cloneMessage(msg domain.Message) domain.Message {
	out := msg
	out.Body = append([]byte(nil), msg.Body...)
	if msg.Headers != nil {
		out.Headers = make(map[string]string, len(msg.Headers))
		for k, v := range msg.Headers {
			out.Headers[k] = v
		}
	}
	return out
}
