package middleware

import (
	"inventory-platform/pkg/ctxutil"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, and
// makes it visible to handlers, loggers and downstream calls.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			uuidV4, err := uuid.NewV4()
			if err != nil {
				slog.WarnContext(c.UserContext(), "[RequestIDMiddleware] Error generating UUID", "error", err)
			}
			reqID = uuidV4.String()
			c.Request().Header.Set(fiber.HeaderXRequestID, reqID)
		}
		c.Locals(ctxutil.RequestIDKey, reqID)
		c.SetUserContext(ctxutil.WithRequestID(c.UserContext(), reqID))
		c.Set(fiber.HeaderXRequestID, reqID)
		return c.Next()
	}
}
