package models

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return RespondWithError(c, err)
		},
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return NewValidationError("bad input")
	})
	app.Get("/upgrade", func(c *fiber.Ctx) error {
		return fiber.ErrUpgradeRequired
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	tests := []struct {
		path   string
		status int
	}{
		{path: "/validation", status: fiber.StatusBadRequest},
		{path: "/upgrade", status: fiber.StatusUpgradeRequired},
		{path: "/boom", status: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}
