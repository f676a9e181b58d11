package domain

import (
	"context"
	"database/sql"
)

type Item struct {
	ID         int64  `json:"itemId"`
	Name       string `json:"itemName"`
	Quantity   int64  `json:"quantity"`
	CategoryID int64  `json:"categoryId"`
}

type ItemCreateRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Quantity   int64  `json:"quantity" validate:"gte=0"`
	CategoryID int64  `json:"categoryId" validate:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,gte=0"`
}

type ItemFilter struct {
	CategoryID int64 `query:"category"`
}

type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (Item, error)
	GetList(ctx context.Context, filter ItemFilter) ([]Item, error)
	LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (Item, error)
	UpdateQuantity(ctx context.Context, id, quantity int64, tx *sql.Tx) error
	Delete(ctx context.Context, id int64) error

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

// ItemCache is an optional read-through cache in front of ItemRepository.
// Misses are reported as ErrNotFound.
//
// Writers hold the row lock while calling Set, so the cache follows commit
// order. Readers only Add, which never replaces an entry, so a value read
// before a concurrent write cannot overwrite it. Delete leaves a marker that
// reads as a miss and blocks Add until it expires.
type ItemCache interface {
	Get(ctx context.Context, id int64) (Item, error)
	Add(ctx context.Context, item Item) error
	Set(ctx context.Context, item Item) error
	Delete(ctx context.Context, id int64) error
}

type ItemService interface {
	Create(ctx context.Context, req ItemCreateRequest) (Item, error)
	GetByID(ctx context.Context, id int64) (Item, error)
	GetList(ctx context.Context, filter ItemFilter) ([]Item, error)
	UpdateQuantity(ctx context.Context, id int64, req UpdateQuantityRequest) (Item, error)
	Delete(ctx context.Context, id int64) error
}
