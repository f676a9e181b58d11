package middleware

import (
	"inventory-platform/app/domain"
	"inventory-platform/app/handler/api/response"
	"inventory-platform/pkg"
	"inventory-platform/pkg/ctxutil"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Auth requires a bearer JWT signed with secretKey carrying a user id.
func Auth(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		token, err := pkg.GetTokenFromHeaders(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			slog.ErrorContext(ctx, "[middleware] Auth", "GetTokenFromHeaders", err)
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		claims, err := pkg.ParseJwtToken(token, secretKey)
		if err != nil {
			slog.ErrorContext(ctx, "[middleware] Auth", "ParseJwtToken", err)
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		if claims.UID == 0 {
			slog.ErrorContext(ctx, "[middleware] Auth", "userID", "0")
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		c.Locals(ctxutil.UserIDKey, claims.UID)
		c.SetUserContext(ctxutil.WithUserID(ctx, claims.UID))
		return c.Next()
	}
}

// OptionalAuth applies Auth only when a secret is configured.
func OptionalAuth(secretKey string) fiber.Handler {
	if secretKey == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return Auth(secretKey)
}
