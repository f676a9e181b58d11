package handler

import (
	"inventory-platform/app/domain"
	"inventory-platform/app/handler/api/response"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type RestockHandler struct {
	restockUsecase domain.RestockService
}

func NewRestockHandler(restockUsecase domain.RestockService) *RestockHandler {
	return &RestockHandler{restockUsecase: restockUsecase}
}

func (h *RestockHandler) Strategies(c *fiber.Ctx) error {
	return c.JSON(h.restockUsecase.Strategies())
}

func (h *RestockHandler) Calculate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := itemID(c, "itemId")
	if err != nil {
		slog.ErrorContext(ctx, "[restockHandler] Calculate", "parseInt:"+c.Params("itemId"), err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	rec, err := h.restockUsecase.CalculateForItem(ctx, id, strategyParam(c))
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.JSON(rec)
}

func (h *RestockHandler) Analyze(c *fiber.Ctx) error {
	ctx := c.UserContext()

	analysis, err := h.restockUsecase.AnalyzeAll(ctx, strategyParam(c))
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.JSON(analysis)
}

func strategyParam(c *fiber.Ctx) string {
	return c.Query("strategy", string(domain.DefaultStrategy))
}
