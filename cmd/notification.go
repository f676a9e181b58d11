package main

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	handler "inventory-platform/app/handler/api"
	"inventory-platform/app/handler/queue"
	"inventory-platform/app/repository/notifier"
	"inventory-platform/app/usecase"
	"inventory-platform/config"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// setupNotification builds the observer set once and shares it between the
// HTTP endpoint and the queue consumers.
func setupNotification(ctx context.Context, cfg *config.Config, v *validator.Validate, fabric domain.MessageConsumer) (*fiber.App, error) {
	notificationUsecase := usecase.NewNotificationUsecase(
		notifier.NewConsoleNotifier(os.Stdout),
		notifier.NewEmailNotifier(cfg.Notifier.EmailRecipient),
	)

	consumer := queue.NewInventoryConsumer(notificationUsecase)
	if err := consumer.Register(ctx, fabric); err != nil {
		return nil, fmt.Errorf("register consumers: %w", err)
	}

	app := newApp("notification-service", cfg)
	handler.SetupNotificationRouter(app, handler.NewNotificationHandler(notificationUsecase, v), cfg)
	return app, nil
}
