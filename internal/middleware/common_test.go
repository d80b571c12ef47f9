package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppliesConfiguredCORSOrigins(t *testing.T) {
	app := fiber.New()
	Register(app, Config{AllowOrigins: "https://portal.example.com"})
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://portal.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterDefaultsToAnyOrigin(t *testing.T) {
	app := fiber.New()
	Register(app, Config{})
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
