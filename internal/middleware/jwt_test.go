package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/tilinsmath/tuition-api/internal/utils"
)

const jwtTestSecret = "access-secret"

func newJWTApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app
}

func TestJWTProtectedAcceptsAccessToken(t *testing.T) {
	tokens := utils.NewTokenManager(jwtTestSecret, "refresh-secret", 15*time.Minute, 24*time.Hour)
	token, err := tokens.GenerateAccessToken("user-1", []string{"student"}, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := newJWTApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "user-1", body["user_id"])
}

func TestJWTProtectedRejectsRefreshToken(t *testing.T) {
	// A refresh token signed with the access secret must still be refused
	// because of its typ claim.
	tokens := utils.NewTokenManager("unused", jwtTestSecret, 15*time.Minute, 24*time.Hour)
	token, err := tokens.GenerateRefreshToken("user-1", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := newJWTApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredToken(t *testing.T) {
	tokens := utils.NewTokenManager(jwtTestSecret, "refresh-secret", time.Minute, 24*time.Hour)
	token, err := tokens.GenerateAccessToken("user-1", nil, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := newJWTApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsMalformedHeader(t *testing.T) {
	app := newJWTApp()

	for _, header := range []string{"", "Token abc", "Bearer "} {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}
