package client

import (
	"context"
	"encoding/json"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/pkg/ctxutil"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HeaderInternalAuth carries the shared secret between services.
const HeaderInternalAuth = "X-Internal-Auth"

type baseClient struct {
	baseURL    string
	timeout    time.Duration
	authHeader string
}

func (c baseClient) prepare(ctx context.Context, a *fiber.Agent) *fiber.Agent {
	a.Timeout(c.timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.authHeader != "" {
		a.Set(HeaderInternalAuth, c.authHeader)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		a.Set(fiber.HeaderXRequestID, requestID)
	}
	return a
}

// do sends the request and decodes a 2xx body into out. A 404 maps to
// ErrNotFound; transport failures and any other status map to
// ErrUpstreamUnavailable.
func do(a *fiber.Agent, out any) error {
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, errs[0])
	}

	switch {
	case code == fiber.StatusNotFound:
		return domain.ErrNotFound
	case code < 200 || code > 299:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrUpstreamUnavailable, code)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}
