package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/configs"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(0))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocRequestID).(string))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestSetupMiddlewaresRecovers(t *testing.T) {
	app := fiber.New()
	SetupMiddlewares(app, configs.Config{CORSOrigins: []string{"http://localhost:3000"}})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	var last int
	for i := 0; i < 6; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		last = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}
