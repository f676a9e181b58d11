package handler

import (
	"inventory-platform/app/middleware"
	"inventory-platform/config"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRouter(app *fiber.App, itemHandler *ItemHandler, cfg *config.Config) {
	app.Get("/health", Health("inventory-service"))

	api := app.Group("/api/inventory").Use(middleware.AuthInternal(cfg))
	api.Get("/items", itemHandler.GetList)
	api.Post("/items", itemHandler.Create)
	api.Get("/items/:id", itemHandler.GetByID)
	api.Put("/items/:id", itemHandler.UpdateQuantity)
	api.Delete("/items/:id", itemHandler.Delete)
}

func SetupNotificationRouter(app *fiber.App, notificationHandler *NotificationHandler, cfg *config.Config) {
	app.Get("/health", Health("notification-service"))

	api := app.Group("/api/notifications").Use(middleware.AuthInternal(cfg))
	api.Post("/", notificationHandler.Send)
	api.Post("/send", notificationHandler.Send)
	api.Get("/channels", notificationHandler.Channels)
	api.Get("/types", notificationHandler.Channels)
}

func SetupRestockingRouter(app *fiber.App, restockHandler *RestockHandler, cfg *config.Config) {
	app.Get("/health", Health("restocking-service"))

	api := app.Group("/api/restocking").Use(middleware.AuthInternal(cfg))
	api.Get("/strategies", restockHandler.Strategies)
	api.Get("/calculate/:itemId", restockHandler.Calculate)
	api.Get("/analyze", restockHandler.Analyze)
}

// SetupGatewayRouter leaves /api/health and /api/info open; everything else
// under /api requires a JWT when a secret is configured.
func SetupGatewayRouter(app *fiber.App, gatewayHandler *GatewayHandler, cfg *config.Config) {
	app.Get("/health", Health("api-gateway"))
	app.Get("/api/health", gatewayHandler.Health)
	app.Get("/api/info", gatewayHandler.Info)

	api := app.Group("/api").Use(middleware.OptionalAuth(cfg.Jwt.SecretKey))
	api.All("/inventory/*", gatewayHandler.Inventory)
	api.All("/notifications/*", gatewayHandler.Notification)
	api.All("/restocking/*", gatewayHandler.Restocking)
}
