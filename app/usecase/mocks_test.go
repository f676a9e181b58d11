package usecase

import (
	"context"
	"database/sql"
	"inventory-platform/app/domain"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetList(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *MockItemRepository) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Item, error) {
	args := m.Called(ctx, id, tx)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateQuantity(ctx context.Context, id, quantity int64, tx *sql.Tx) error {
	args := m.Called(ctx, id, quantity, tx)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTransaction runs fn without a real transaction. The configured return
// value stands in for the commit result.
func (m *MockItemRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	args := m.Called(ctx)
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return args.Error(0)
}

type MockItemCache struct {
	mock.Mock
}

func (m *MockItemCache) Get(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemCache) Add(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemCache) Set(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemCache) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryCache is an ItemCache with the same Add and tombstone rules as the
// Redis implementation.
type memoryCache struct {
	mu      sync.Mutex
	entries map[int64]*domain.Item
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[int64]*domain.Item)}
}

func (c *memoryCache) Get(_ context.Context, id int64) (domain.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.entries[id]
	if !ok || item == nil {
		return domain.Item{}, domain.ErrNotFound
	}
	return *item, nil
}

func (c *memoryCache) Add(_ context.Context, item domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[item.ID]; !ok {
		c.entries[item.ID] = &item
	}
	return nil
}

func (c *memoryCache) Set(_ context.Context, item domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[item.ID] = &item
	return nil
}

func (c *memoryCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = nil
	return nil
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCreated(ctx context.Context, event domain.InventoryEvent) {
	m.Called(ctx, event)
}

func (m *MockEventPublisher) PublishUpdated(ctx context.Context, event domain.InventoryEvent) {
	m.Called(ctx, event)
}

func (m *MockEventPublisher) PublishLowStock(ctx context.Context, event domain.InventoryEvent) {
	m.Called(ctx, event)
}

type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockInventoryClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

type MockNotificationClient struct {
	mock.Mock
}

func (m *MockNotificationClient) Send(ctx context.Context, req domain.NotificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockObserver struct {
	mock.Mock
	channel string
}

func newMockObserver(channel string) *MockObserver {
	return &MockObserver{channel: channel}
}

func (m *MockObserver) ChannelName() string {
	return m.channel
}

func (m *MockObserver) Update(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
