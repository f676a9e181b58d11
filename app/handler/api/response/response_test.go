package response

import (
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: quantity", domain.ErrValidation), fiber.StatusBadRequest},
		{fmt.Errorf("%w: \"FOO\"", domain.ErrInvalidStrategy), fiber.StatusBadRequest},
		{fmt.Errorf("item 3: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{fmt.Errorf("%w: dial tcp", domain.ErrUpstreamUnavailable), fiber.StatusBadGateway},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, resp := FromError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	}

	_, resp := FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, domain.ErrInternal.Error(), resp.Error)
}
