package handler

import (
	"encoding/json"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/config"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInventoryApp(svc domain.ItemService) *fiber.App {
	app := fiber.New()
	SetupInventoryRouter(app, NewItemHandler(svc, validator.New()), &config.Config{})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func TestItemHandler_Create(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	req := domain.ItemCreateRequest{Name: "Widget", Quantity: 5, CategoryID: 1}
	svc.On("Create", mock.Anything, req).Return(domain.Item{ID: 1, Name: "Widget", Quantity: 5, CategoryID: 1}, nil)

	resp, err := app.Test(jsonRequest("POST", "/api/inventory/items", `{"name":"Widget","quantity":5,"categoryId":1}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var item map[string]any
	decodeBody(t, resp, &item)
	assert.Equal(t, float64(1), item["itemId"])
	assert.Equal(t, "Widget", item["itemName"])
}

func TestItemHandler_CreateInvalid(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	tests := map[string]string{
		"negative quantity": `{"name":"Widget","quantity":-1,"categoryId":1}`,
		"missing name":      `{"quantity":1,"categoryId":1}`,
		"malformed":         `{"name":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest("POST", "/api/inventory/items", body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var envelope map[string]any
			decodeBody(t, resp, &envelope)
			assert.Equal(t, false, envelope["success"])
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestItemHandler_GetList(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	svc.On("GetList", mock.Anything, domain.ItemFilter{}).Return([]domain.Item{{ID: 1}, {ID: 2}}, nil)
	svc.On("GetList", mock.Anything, domain.ItemFilter{CategoryID: 3}).Return([]domain.Item{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/inventory/items", nil))
	require.NoError(t, err)
	var all []domain.Item
	decodeBody(t, resp, &all)
	assert.Len(t, all, 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/inventory/items?category=3", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/inventory/items?category=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestItemHandler_GetByID(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	svc.On("GetByID", mock.Anything, int64(1)).Return(domain.Item{ID: 1, Name: "Widget"}, nil)
	svc.On("GetByID", mock.Anything, int64(2)).Return(domain.Item{}, fmt.Errorf("item 2: %w", domain.ErrNotFound))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/inventory/items/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/inventory/items/2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/inventory/items/zero", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestItemHandler_UpdateQuantity(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	svc.On("UpdateQuantity", mock.Anything, int64(4), mock.MatchedBy(func(req domain.UpdateQuantityRequest) bool {
		return req.Quantity != nil && *req.Quantity == 0
	})).Return(domain.Item{ID: 4, Quantity: 0}, nil)

	resp, err := app.Test(jsonRequest("PUT", "/api/inventory/items/4", `{"quantity":0}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", "/api/inventory/items/4", `{}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", "/api/inventory/items/4", `{"quantity":-3}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	svc.AssertNumberOfCalls(t, "UpdateQuantity", 1)
}

func TestItemHandler_Delete(t *testing.T) {
	svc := new(MockItemService)
	app := newInventoryApp(svc)

	svc.On("Delete", mock.Anything, int64(4)).Return(nil)
	svc.On("Delete", mock.Anything, int64(5)).Return(domain.ErrNotFound)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/inventory/items/4", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/inventory/items/5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newInventoryApp(new(MockItemService))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)

	var health HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, HealthResponse{Status: "UP", Service: "inventory-service"}, health)
}
