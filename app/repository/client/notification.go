package client

import (
	"context"
	"inventory-platform/app/domain"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type notificationClient struct {
	baseClient
}

func NewNotificationClient(baseURL string, timeout time.Duration, authHeader string) domain.NotificationClient {
	return &notificationClient{baseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		authHeader: authHeader,
	}}
}

func (c *notificationClient) Send(ctx context.Context, req domain.NotificationRequest) error {
	a := c.prepare(ctx, fiber.Post(c.baseURL+"/api/notifications"))
	a.JSON(req)

	if err := do(a, nil); err != nil {
		slog.WarnContext(ctx, "[notificationClient] Send", "channel", req.TargetChannel(), "error", err)
		return err
	}
	return nil
}
