package main

import (
	"inventory-platform/app/domain"
	handler "inventory-platform/app/handler/api"
	"inventory-platform/app/repository/client"
	"inventory-platform/app/usecase"
	"inventory-platform/config"

	"github.com/gofiber/fiber/v2"
)

func setupRestocking(cfg *config.Config) *fiber.App {
	inventoryClient := client.NewInventoryClient(cfg.Upstream.InventoryURL, cfg.Upstream.Timeout, cfg.InternalAuthHeader)
	notificationClient := client.NewNotificationClient(cfg.Upstream.NotificationURL, cfg.Upstream.Timeout, cfg.InternalAuthHeader)

	restockUsecase := usecase.NewRestockUsecase(inventoryClient, notificationClient, domain.DefaultStrategies(), domain.RestockThresholds{
		Critical: cfg.Threshold.RestockCritical,
		Low:      cfg.Threshold.RestockLowStock,
	})

	app := newApp("restocking-service", cfg)
	handler.SetupRestockingRouter(app, handler.NewRestockHandler(restockUsecase), cfg)
	return app
}
