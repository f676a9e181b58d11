package domain

import "context"

const (
	HeaderRequestID  = "X-Request-ID"
	HeaderRoutingKey = "X-Routing-Key"
)

// Message is what a publisher hands to the exchange.
type Message struct {
	ID         string
	RoutingKey string
	Headers    map[string]string
	Body       []byte
}

// Delivery is a message as seen by a queue consumer.
type Delivery struct {
	Message
	Queue   string
	Attempt int
}

// DeliveryHandler processes one delivery. Returning an error asks the fabric
// to redeliver, unless the error wraps ErrMalformedMessage, in which case the
// message is dropped.
type DeliveryHandler func(ctx context.Context, d Delivery) error

type MessageBroker interface {
	Publish(ctx context.Context, msg Message) error
}

type MessageConsumer interface {
	Consume(ctx context.Context, queue string, handler DeliveryHandler) error
}
