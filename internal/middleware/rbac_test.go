package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type stubRoleChecker struct {
	roles map[string][]string
	fail  error
}

func (s *stubRoleChecker) HasRole(_ context.Context, userID, role string) (bool, error) {
	if s.fail != nil {
		return false, s.fail
	}
	for _, held := range s.roles[userID] {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

func newRBACApp(checker RoleChecker, userID string, roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(LocalUserID, userID)
		}
		return c.Next()
	}, RequireRole(checker, roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsHolder(t *testing.T) {
	checker := &stubRoleChecker{roles: map[string][]string{"user-1": {"teacher"}}}
	app := newRBACApp(checker, "user-1", "admin", "teacher")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleDeniesMissingRole(t *testing.T) {
	checker := &stubRoleChecker{roles: map[string][]string{"user-1": {"student"}}}
	app := newRBACApp(checker, "user-1", "admin")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	checker := &stubRoleChecker{}
	app := newRBACApp(checker, "", "admin")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleDeniesOnLookupFailure(t *testing.T) {
	checker := &stubRoleChecker{fail: errors.New("registry down")}
	app := newRBACApp(checker, "user-1", "admin")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
