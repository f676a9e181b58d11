package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	InventoryExchange    = "inventory.exchange"
	InventoryEventsQueue = "inventory.events.queue"
	NotificationQueue    = "notification.queue"
)

type ExchangeKind string

const ExchangeTopic ExchangeKind = "topic"

type Exchange struct {
	Name string
	Kind ExchangeKind
}

type Queue struct {
	Name    string
	TTL     time.Duration
	Durable bool
}

// Binding subscribes a queue to routing keys matching Pattern. Patterns use
// topic syntax: words separated by '.', '*' matches one word and '#' matches
// zero or more words.
type Binding struct {
	Queue   string
	Pattern string
}

// Topology describes the exchange, its queues and bindings. It is built once
// at startup and handed to the fabric; nothing mutates it afterwards.
type Topology struct {
	Exchange Exchange
	Queues   []Queue
	Bindings []Binding
}

func InventoryTopology() Topology {
	return Topology{
		Exchange: Exchange{Name: InventoryExchange, Kind: ExchangeTopic},
		Queues: []Queue{
			{Name: InventoryEventsQueue, TTL: 24 * time.Hour, Durable: true},
			{Name: NotificationQueue, TTL: time.Hour, Durable: true},
		},
		Bindings: []Binding{
			{Queue: InventoryEventsQueue, Pattern: RoutingKeyCreated},
			{Queue: InventoryEventsQueue, Pattern: RoutingKeyUpdated},
			{Queue: NotificationQueue, Pattern: RoutingKeyLowStock},
		},
	}
}

func (t Topology) Validate() error {
	if t.Exchange.Name == "" {
		return fmt.Errorf("%w: exchange name is empty", ErrValidation)
	}
	if t.Exchange.Kind != ExchangeTopic {
		return fmt.Errorf("%w: unsupported exchange kind %q", ErrValidation, t.Exchange.Kind)
	}

	seen := make(map[string]struct{}, len(t.Queues))
	for _, q := range t.Queues {
		if q.Name == "" {
			return fmt.Errorf("%w: queue name is empty", ErrValidation)
		}
		if q.TTL < 0 {
			return fmt.Errorf("%w: queue %s has negative ttl", ErrValidation, q.Name)
		}
		if _, ok := seen[q.Name]; ok {
			return fmt.Errorf("%w: duplicate queue %s", ErrValidation, q.Name)
		}
		seen[q.Name] = struct{}{}
	}

	for _, b := range t.Bindings {
		if _, ok := seen[b.Queue]; !ok {
			return fmt.Errorf("%w: binding references unknown queue %s", ErrValidation, b.Queue)
		}
		if b.Pattern == "" {
			return fmt.Errorf("%w: empty binding pattern for queue %s", ErrValidation, b.Queue)
		}
	}
	return nil
}

func (t Topology) Queue(name string) (Queue, bool) {
	for _, q := range t.Queues {
		if q.Name == name {
			return q, true
		}
	}
	return Queue{}, false
}

// Route returns the queues that receive a message published with routingKey,
// in declaration order and without duplicates.
func (t Topology) Route(routingKey string) []Queue {
	var routed []Queue
	for _, q := range t.Queues {
		for _, b := range t.Bindings {
			if b.Queue == q.Name && MatchRoutingKey(b.Pattern, routingKey) {
				routed = append(routed, q)
				break
			}
		}
	}
	return routed
}

// MatchRoutingKey reports whether key matches a topic binding pattern.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
