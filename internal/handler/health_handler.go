package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tilinsmath/tuition-api/internal/utils"
)

// HealthHandler exposes the liveness endpoint.
type HealthHandler struct{}

// NewHealthHandler constructs a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register wires health routes.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{"status": "healthy"})
}
