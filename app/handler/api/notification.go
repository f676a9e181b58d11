package handler

import (
	"inventory-platform/app/domain"
	"inventory-platform/app/handler/api/response"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationUsecase domain.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationUsecase domain.NotificationService, validator *validator.Validate) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

// Send dispatches the notification to the observer set. Individual observer
// failures do not change the response.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req domain.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(ctx, "[notificationHandler] Send", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(ctx, "[notificationHandler] Send", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	result := h.notificationUsecase.Send(ctx, req)
	slog.InfoContext(ctx, "[notificationHandler] Send",
		"channel", req.TargetChannel(),
		"matched", result.Matched,
		"delivered", result.Delivered,
		"failed", result.Failed)

	return c.JSON(domain.NotificationResponse{
		Status:  "success",
		Message: "Notification sent successfully",
	})
}

func (h *NotificationHandler) Channels(c *fiber.Ctx) error {
	return c.JSON(h.notificationUsecase.Channels())
}
