package main

import (
	handler "inventory-platform/app/handler/api"
	"inventory-platform/config"

	"github.com/gofiber/fiber/v2"
)

func setupGateway(cfg *config.Config) *fiber.App {
	app := newApp("api-gateway", cfg)
	handler.SetupGatewayRouter(app, handler.NewGatewayHandler(cfg), cfg)
	return app
}
