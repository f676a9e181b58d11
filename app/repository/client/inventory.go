package client

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type inventoryClient struct {
	baseClient
}

// NewInventoryClient reads items from the inventory service at baseURL.
func NewInventoryClient(baseURL string, timeout time.Duration, authHeader string) domain.InventoryClient {
	return &inventoryClient{baseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		authHeader: authHeader,
	}}
}

func (c *inventoryClient) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	var item domain.Item
	url := fmt.Sprintf("%s/api/inventory/items/%d", c.baseURL, id)

	if err := do(c.prepare(ctx, fiber.Get(url)), &item); err != nil {
		slog.WarnContext(ctx, "[inventoryClient] GetItem", "itemID", id, "error", err)
		return domain.Item{}, err
	}
	return item, nil
}

func (c *inventoryClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	url := c.baseURL + "/api/inventory/items"

	if err := do(c.prepare(ctx, fiber.Get(url)), &items); err != nil {
		slog.WarnContext(ctx, "[inventoryClient] ListItems", "error", err)
		return nil, err
	}
	return items, nil
}
