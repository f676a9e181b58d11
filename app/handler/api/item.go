package handler

import (
	"inventory-platform/app/domain"
	"inventory-platform/app/handler/api/response"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	itemUsecase domain.ItemService
	validator   *validator.Validate
}

func NewItemHandler(itemUsecase domain.ItemService, validator *validator.Validate) *ItemHandler {
	return &ItemHandler{
		itemUsecase: itemUsecase,
		validator:   validator,
	}
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req domain.ItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(ctx, "[itemHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(ctx, "[itemHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	item, err := h.itemUsecase.Create(ctx, req)
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) GetList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var filter domain.ItemFilter
	if err := c.QueryParser(&filter); err != nil || filter.CategoryID < 0 {
		slog.ErrorContext(ctx, "[itemHandler] GetList", "queryParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	items, err := h.itemUsecase.GetList(ctx, filter)
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.JSON(items)
}

func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := itemID(c, "id")
	if err != nil {
		slog.ErrorContext(ctx, "[itemHandler] GetByID", "parseInt:"+c.Params("id"), err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	item, err := h.itemUsecase.GetByID(ctx, id)
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.JSON(item)
}

func (h *ItemHandler) UpdateQuantity(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := itemID(c, "id")
	if err != nil {
		slog.ErrorContext(ctx, "[itemHandler] UpdateQuantity", "parseInt:"+c.Params("id"), err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(ctx, "[itemHandler] UpdateQuantity", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(ctx, "[itemHandler] UpdateQuantity", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	item, err := h.itemUsecase.UpdateQuantity(ctx, id, req)
	if err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := itemID(c, "id")
	if err != nil {
		slog.ErrorContext(ctx, "[itemHandler] Delete", "parseInt:"+c.Params("id"), err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.itemUsecase.Delete(ctx, id); err != nil {
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func itemID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}
