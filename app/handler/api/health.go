package handler

import "github.com/gofiber/fiber/v2"

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health reports the named service as up.
func Health(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{Status: StatusUp, Service: service})
	}
}
