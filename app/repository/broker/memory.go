package broker

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"log/slog"
	"sync"
	"time"
)

type MemoryOption func(*MemoryFabric)

// WithClock replaces the time source used for TTL expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(f *MemoryFabric) { f.now = now }
}

func WithMaxDeliver(n int) MemoryOption {
	return func(f *MemoryFabric) {
		if n > 0 {
			f.maxDeliver = n
		}
	}
}

func WithRedeliveryDelay(d time.Duration) MemoryOption {
	return func(f *MemoryFabric) { f.redeliveryDelay = d }
}

// MemoryFabric is an in-process topic exchange. Each queue is a FIFO buffer
// with lazy TTL expiry and at most one consumer goroutine.
type MemoryFabric struct {
	topology        domain.Topology
	queues          map[string]*memoryQueue
	maxDeliver      int
	redeliveryDelay time.Duration
	now             func() time.Time

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

type memoryQueue struct {
	queue domain.Queue

	mu       sync.Mutex
	seq      uint64
	entries  []memoryEntry
	consumed bool
	signal   chan struct{}
}

type memoryEntry struct {
	seq        uint64
	msg        domain.Message
	enqueuedAt time.Time
}

func NewMemoryFabric(topology domain.Topology, opts ...MemoryOption) (*MemoryFabric, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}

	f := &MemoryFabric{
		topology:        topology,
		queues:          make(map[string]*memoryQueue, len(topology.Queues)),
		maxDeliver:      3,
		redeliveryDelay: 100 * time.Millisecond,
		now:             time.Now,
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, q := range topology.Queues {
		f.queues[q.Name] = &memoryQueue{queue: q, signal: make(chan struct{}, 1)}
	}
	return f, nil
}

func (f *MemoryFabric) Publish(ctx context.Context, msg domain.Message) error {
	if f.isClosed() {
		return domain.ErrBrokerClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	routed := f.topology.Route(msg.RoutingKey)
	if len(routed) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnroutable, msg.RoutingKey)
	}

	now := f.now()
	for _, q := range routed {
		f.queues[q.Name].push(cloneMessage(msg), now)
	}
	return nil
}

func (f *MemoryFabric) Consume(ctx context.Context, queue string, handler domain.DeliveryHandler) error {
	q, ok := f.queues[queue]
	if !ok {
		return fmt.Errorf("%w: queue %s", domain.ErrNotFound, queue)
	}
	if f.isClosed() {
		return domain.ErrBrokerClosed
	}

	q.mu.Lock()
	if q.consumed {
		q.mu.Unlock()
		return fmt.Errorf("%w: queue %s already has a consumer", domain.ErrInvalidRequest, queue)
	}
	q.consumed = true
	q.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.consumeLoop(ctx, q, handler)
	}()
	return nil
}

// Pending returns the number of unexpired messages waiting in queue.
func (f *MemoryFabric) Pending(queue string) int {
	q, ok := f.queues[queue]
	if !ok {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(f.now())
	return len(q.entries)
}

// Close stops the consumers and waits for in-flight handlers to return.
// Messages still buffered are discarded.
func (f *MemoryFabric) Close() error {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
	f.mu.Unlock()

	f.wg.Wait()
	return nil
}

func (f *MemoryFabric) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *MemoryFabric) consumeLoop(ctx context.Context, q *memoryQueue, handler domain.DeliveryHandler) {
	var (
		current uint64
		attempt int
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		default:
		}

		entry, ok := q.head(f.now())
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-f.done:
				return
			case <-q.signal:
			}
			continue
		}

		if entry.seq != current {
			current, attempt = entry.seq, 0
		}
		attempt++

		d := domain.Delivery{Message: cloneMessage(entry.msg), Queue: q.queue.Name, Attempt: attempt}
		if handleDelivery(ctx, handler, d, f.maxDeliver) != settleRetry {
			q.remove(entry.seq)
			continue
		}

		if f.redeliveryDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-f.done:
				return
			case <-time.After(f.redeliveryDelay):
			}
		}
	}
}

func (q *memoryQueue) push(msg domain.Message, now time.Time) {
	q.mu.Lock()
	q.seq++
	q.entries = append(q.entries, memoryEntry{seq: q.seq, msg: msg, enqueuedAt: now})
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *memoryQueue) head(now time.Time) (memoryEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.expireLocked(now)
	if len(q.entries) == 0 {
		return memoryEntry{}, false
	}
	return q.entries[0], true
}

func (q *memoryQueue) remove(seq uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) > 0 && q.entries[0].seq == seq {
		q.entries[0] = memoryEntry{}
		q.entries = q.entries[1:]
	}
}

// expireLocked drops expired messages from the front of the queue. Entries
// are in enqueue order, so the first live entry ends the scan.
func (q *memoryQueue) expireLocked(now time.Time) {
	if q.queue.TTL <= 0 {
		return
	}

	n := 0
	for n < len(q.entries) && now.Sub(q.entries[n].enqueuedAt) > q.queue.TTL {
		n++
	}
	if n == 0 {
		return
	}

	slog.Warn("[memoryFabric] expire", "queue", q.queue.Name, "expired", n)
	for i := 0; i < n; i++ {
		q.entries[i] = memoryEntry{}
	}
	q.entries = q.entries[n:]
}
