package handler

import (
	"inventory-platform/app/middleware"
	"inventory-platform/config"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

type upstream struct {
	name    string
	baseURL string
}

// GatewayHandler forwards /api traffic to the owning service and reports on
// their health.
type GatewayHandler struct {
	inventory    upstream
	notification upstream
	restocking   upstream
	timeout      time.Duration
	internalAuth string
}

type ServiceUnavailableResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	TargetURL string `json:"targetUrl"`
}

type GatewayHealthResponse struct {
	Gateway  string            `json:"gateway"`
	Services map[string]string `json:"services"`
}

type GatewayInfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Services    map[string]string `json:"services"`
}

func NewGatewayHandler(cfg *config.Config) *GatewayHandler {
	trim := func(u string) string { return strings.TrimRight(u, "/") }
	return &GatewayHandler{
		inventory:    upstream{config.ServiceInventory, trim(cfg.Upstream.InventoryURL)},
		notification: upstream{config.ServiceNotification, trim(cfg.Upstream.NotificationURL)},
		restocking:   upstream{config.ServiceRestocking, trim(cfg.Upstream.RestockingURL)},
		timeout:      cfg.Upstream.Timeout,
		internalAuth: cfg.InternalAuthHeader,
	}
}

func (h *GatewayHandler) Inventory(c *fiber.Ctx) error    { return h.forward(c, h.inventory) }
func (h *GatewayHandler) Notification(c *fiber.Ctx) error { return h.forward(c, h.notification) }
func (h *GatewayHandler) Restocking(c *fiber.Ctx) error   { return h.forward(c, h.restocking) }

// forward relays the request unchanged and passes the upstream response
// through, whatever its status. Only a failed exchange produces a 503.
func (h *GatewayHandler) forward(c *fiber.Ctx, to upstream) error {
	ctx := c.UserContext()
	target := to.baseURL + c.OriginalURL()

	if h.internalAuth != "" {
		c.Request().Header.Set(string(middleware.AuthInternalHeaderKey), h.internalAuth)
	}

	slog.InfoContext(ctx, "[gatewayHandler] forward", "service", to.name, "method", c.Method(), "target", target)
	if err := proxy.DoTimeout(c, target, h.timeout); err != nil {
		slog.ErrorContext(ctx, "[gatewayHandler] forward", "target", target, "doTimeout", err)
		c.Response().Reset()
		return c.Status(fiber.StatusServiceUnavailable).JSON(ServiceUnavailableResponse{
			Error:     "Service unavailable",
			Message:   err.Error(),
			TargetURL: target,
		})
	}
	return nil
}

// Health probes every service's /health endpoint concurrently.
func (h *GatewayHandler) Health(c *fiber.Ctx) error {
	upstreams := []upstream{h.inventory, h.notification, h.restocking}
	statuses := make([]string, len(upstreams))

	var wg sync.WaitGroup
	for i, u := range upstreams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i] = h.probe(u)
		}()
	}
	wg.Wait()

	resp := GatewayHealthResponse{Gateway: StatusUp, Services: make(map[string]string, len(upstreams))}
	for i, u := range upstreams {
		resp.Services[u.name] = statuses[i]
	}
	return c.JSON(resp)
}

func (h *GatewayHandler) probe(u upstream) string {
	a := fiber.Get(u.baseURL + "/health")
	a.Timeout(h.timeout)

	code, _, errs := a.Bytes()
	if len(errs) > 0 {
		slog.Warn("[gatewayHandler] probe", "service", u.name, "error", errs[0])
		return StatusDown
	}
	if code < 200 || code > 299 {
		slog.Warn("[gatewayHandler] probe", "service", u.name, "status", code)
		return StatusDown
	}
	return StatusUp
}

func (h *GatewayHandler) Info(c *fiber.Ctx) error {
	return c.JSON(GatewayInfoResponse{
		Name:        "Inventory Management API Gateway",
		Version:     "1.0.0",
		Description: "Single entry point for all microservices",
		Services: map[string]string{
			h.inventory.name:    h.inventory.baseURL,
			h.notification.name: h.notification.baseURL,
			h.restocking.name:   h.restocking.baseURL,
		},
	})
}
