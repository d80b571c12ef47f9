package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/tilinsmath/tuition-api/internal/utils"
)

// RoleChecker answers whether a user currently holds a role. The role
// registry is consulted per request so revocations apply immediately.
type RoleChecker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// RequireRole ensures the authenticated user holds at least one of the
// allowed roles. Any lookup failure denies access.
func RequireRole(checker RoleChecker, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		for _, role := range roles {
			held, err := checker.HasRole(c.UserContext(), userID, role)
			if err != nil {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
			if held {
				return c.Next()
			}
		}

		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
