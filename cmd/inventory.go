package main

import (
	"context"
	"inventory-platform/app/domain"
	handler "inventory-platform/app/handler/api"
	"inventory-platform/app/repository/broker"
	"inventory-platform/app/repository/cache"
	"inventory-platform/app/repository/db"
	"inventory-platform/app/usecase"
	"inventory-platform/config"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// setupInventory wires the item store, the optional Redis cache and the
// event publisher. The returned cleanup drains the publisher before closing
// the stores.
func setupInventory(ctx context.Context, cfg *config.Config, v *validator.Validate, fabric domain.MessageBroker) (*fiber.App, func(), error) {
	// init database
	dbConn, err := db.Open(ctx, cfg.Db)
	if err != nil {
		return nil, nil, err
	}

	var (
		itemCache   domain.ItemCache
		redisClient *redis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "[setupInventory] redis unavailable, serving without cache", "addr", cfg.Redis.Addr, "error", err)
			redisClient.Close()
			redisClient = nil
		} else {
			itemCache = cache.NewItemCache(redisClient, cfg.Redis.CacheTTL)
		}
	}

	publisher := broker.NewInventoryEventPublisher(fabric, broker.PublisherConfig{
		BufferSize:    cfg.Broker.PublisherBufferSize,
		RetryAttempts: cfg.Broker.PublisherRetries,
		RetryDelay:    cfg.Broker.PublisherRetryDelay,
	})

	itemRepo := db.NewItemRepository(dbConn, cfg.Db.Driver)
	itemUsecase := usecase.NewItemUsecase(itemRepo, itemCache, publisher, domain.NewEventClock(), cfg)
	itemHandler := handler.NewItemHandler(itemUsecase, v)

	app := newApp("inventory-service", cfg)
	handler.SetupInventoryRouter(app, itemHandler, cfg)

	cleanup := func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.Close(drainCtx); err != nil {
			slog.Warn("[setupInventory] publisher drain incomplete", "error", err)
		}
		if redisClient != nil {
			redisClient.Close()
		}
		dbConn.Close()
	}
	return app, cleanup, nil
}
