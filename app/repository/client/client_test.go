package client

import (
	"context"
	"inventory-platform/app/domain"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts app on a random local port and returns its base URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func inventoryStub(t *testing.T, secret string) string {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/api/inventory/items", func(c *fiber.Ctx) error {
		if c.Get(HeaderInternalAuth) != secret {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON([]domain.Item{
			{ID: 1, Name: "Widget", Quantity: 3, CategoryID: 1},
			{ID: 2, Name: "Gear", Quantity: 40, CategoryID: 2},
		})
	})
	app.Get("/api/inventory/items/:id", func(c *fiber.Ctx) error {
		switch c.Params("id") {
		case "1":
			return c.JSON(domain.Item{ID: 1, Name: "Widget", Quantity: 3, CategoryID: 1})
		case "500":
			return c.SendStatus(fiber.StatusInternalServerError)
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "not found"})
		}
	})
	return serve(t, app)
}

func TestInventoryClient_GetItem(t *testing.T) {
	c := NewInventoryClient(inventoryStub(t, ""), time.Second, "")

	item, err := c.GetItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Item{ID: 1, Name: "Widget", Quantity: 3, CategoryID: 1}, item)

	_, err = c.GetItem(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.GetItem(context.Background(), 500)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestInventoryClient_ListItemsSendsAuthHeader(t *testing.T) {
	base := inventoryStub(t, "s3cret")

	items, err := NewInventoryClient(base, time.Second, "s3cret").ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = NewInventoryClient(base, time.Second, "wrong").ListItems(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestInventoryClient_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewInventoryClient("http://"+addr, 200*time.Millisecond, "").ListItems(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestNotificationClient_Send(t *testing.T) {
	received := make(chan domain.NotificationRequest, 1)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/notifications", func(c *fiber.Ctx) error {
		var req domain.NotificationRequest
		if err := c.BodyParser(&req); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		received <- req
		return c.JSON(domain.NotificationResponse{Status: "success", Message: "Notification sent successfully"})
	})
	base := serve(t, app)

	req := domain.NotificationRequest{Message: "restock now", Channel: domain.ChannelAll}
	require.NoError(t, NewNotificationClient(base, time.Second, "").Send(context.Background(), req))

	select {
	case got := <-received:
		assert.Equal(t, req.Message, got.Message)
		assert.Equal(t, req.Channel, got.Channel)
	case <-time.After(time.Second):
		t.Fatal("notification not received")
	}
}

func TestNotificationClient_ServerError(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/notifications", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusBadGateway)
	})

	err := NewNotificationClient(serve(t, app), time.Second, "").Send(context.Background(), domain.NotificationRequest{Message: "x"})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
