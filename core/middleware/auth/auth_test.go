package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(New(Config{ApiKey: apiKey}))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAuth_EmptyKeyDisablesCheck(t *testing.T) {
	app := setupApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuth_MissingKey(t *testing.T) {
	app := setupApp("secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_WrongKey(t *testing.T) {
	app := setupApp("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-API-Key", "guess")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_CorrectKey(t *testing.T) {
	app := setupApp("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
