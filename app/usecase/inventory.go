package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/config"
	"log/slog"
	"strings"
)

type itemUsecase struct {
	itemRepo  domain.ItemRepository
	itemCache domain.ItemCache
	publisher domain.EventPublisher
	clock     *domain.EventClock
	cfg       *config.Config
}

// NewItemUsecase wires the inventory service. itemCache may be nil.
func NewItemUsecase(itemRepo domain.ItemRepository, itemCache domain.ItemCache, publisher domain.EventPublisher, clock *domain.EventClock, cfg *config.Config) domain.ItemService {
	return &itemUsecase{itemRepo, itemCache, publisher, clock, cfg}
}

func (u *itemUsecase) Create(ctx context.Context, req domain.ItemCreateRequest) (domain.Item, error) {
	if req.Quantity < 0 {
		return domain.Item{}, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Item{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	item := domain.Item{
		Name:       name,
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
	}
	if err := u.itemRepo.Create(ctx, &item); err != nil {
		slog.ErrorContext(ctx, "[itemUsecase] Create", "createItem", err)
		return domain.Item{}, err
	}

	// Events go out only after the write succeeded; the publisher never
	// reports back, so nothing below can fail the request.
	u.publisher.PublishCreated(ctx, u.clock.NewEvent(domain.EventCreated, item, "New item added to inventory"))
	if item.Quantity <= u.cfg.Threshold.InventoryLowStock {
		u.publisher.PublishLowStock(ctx, u.clock.NewEvent(domain.EventLowStock, item,
			fmt.Sprintf("Item '%s' created with low stock: %d", item.Name, item.Quantity)))
	}

	u.cacheSet(ctx, item)
	slog.InfoContext(ctx, "[itemUsecase] Create", "itemID", item.ID, "quantity", item.Quantity)
	return item, nil
}

func (u *itemUsecase) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	if u.itemCache != nil {
		item, err := u.itemCache.Get(ctx, id)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "[itemUsecase] GetByID", "cacheGet", err)
		}
	}

	item, err := u.itemRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[itemUsecase] GetByID", "getItem", err)
		return domain.Item{}, err
	}

	u.cacheAdd(ctx, item)
	return item, nil
}

func (u *itemUsecase) GetList(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	items, err := u.itemRepo.GetList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "[itemUsecase] GetList", "getList", err)
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (u *itemUsecase) UpdateQuantity(ctx context.Context, id int64, req domain.UpdateQuantityRequest) (domain.Item, error) {
	if req.Quantity == nil {
		return domain.Item{}, fmt.Errorf("%w: quantity is required", domain.ErrValidation)
	}
	newQuantity := *req.Quantity
	if newQuantity < 0 {
		return domain.Item{}, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}

	var (
		before, after domain.Item
		cached        bool
	)
	err := u.itemRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		item, err := u.itemRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[itemUsecase] UpdateQuantity", "lockForUpdate", err)
			return err
		}

		if err := u.itemRepo.UpdateQuantity(ctx, id, newQuantity, tx); err != nil {
			slog.ErrorContext(ctx, "[itemUsecase] UpdateQuantity", "updateItem", err)
			return err
		}

		before = item
		after = item
		after.Quantity = newQuantity

		// Still under the row lock, so concurrent writers reach the cache in
		// commit order.
		u.cacheSet(ctx, after)
		cached = true
		return nil
	})
	if err != nil {
		if cached {
			u.cacheDelete(ctx, id)
		}
		return domain.Item{}, err
	}

	u.publisher.PublishUpdated(ctx, u.clock.NewEvent(domain.EventUpdated, after,
		fmt.Sprintf("Quantity updated from %d to %d", before.Quantity, after.Quantity)))

	threshold := u.cfg.Threshold.InventoryLowStock
	if after.Quantity <= threshold && before.Quantity > threshold {
		u.publisher.PublishLowStock(ctx, u.clock.NewEvent(domain.EventLowStock, after,
			fmt.Sprintf("Item '%s' is now low in stock: %d", after.Name, after.Quantity)))
	}

	slog.InfoContext(ctx, "[itemUsecase] UpdateQuantity", "itemID", id, "from", before.Quantity, "to", after.Quantity)
	return after, nil
}

func (u *itemUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.itemRepo.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "[itemUsecase] Delete", "deleteItem", err)
		return err
	}
	u.cacheDelete(ctx, id)
	return nil
}

func (u *itemUsecase) cacheSet(ctx context.Context, item domain.Item) {
	if u.itemCache == nil {
		return
	}
	if err := u.itemCache.Set(ctx, item); err != nil {
		slog.WarnContext(ctx, "[itemUsecase] cacheSet", "itemID", item.ID, "error", err)
	}
}

func (u *itemUsecase) cacheAdd(ctx context.Context, item domain.Item) {
	if u.itemCache == nil {
		return
	}
	if err := u.itemCache.Add(ctx, item); err != nil {
		slog.WarnContext(ctx, "[itemUsecase] cacheAdd", "itemID", item.ID, "error", err)
	}
}

func (u *itemUsecase) cacheDelete(ctx context.Context, id int64) {
	if u.itemCache == nil {
		return
	}
	if err := u.itemCache.Delete(ctx, id); err != nil {
		slog.WarnContext(ctx, "[itemUsecase] cacheDelete", "itemID", id, "error", err)
	}
}
