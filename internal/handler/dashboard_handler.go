package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// DashboardHandler exposes the per-role dashboard aggregates.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterAdmin wires the admin overview.
func (h *DashboardHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/dashboard", h.admin)
}

// RegisterStudent wires the student's dashboard.
func (h *DashboardHandler) RegisterStudent(router fiber.Router) {
	router.Get("/dashboard", h.student)
}

// RegisterParent wires the parent's dashboard.
func (h *DashboardHandler) RegisterParent(router fiber.Router) {
	router.Get("/dashboard", h.parent)
}

func (h *DashboardHandler) admin(c *fiber.Ctx) error {
	result, err := h.service.AdminDashboard(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard", result)
}

func (h *DashboardHandler) student(c *fiber.Ctx) error {
	result, err := h.service.StudentDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard", result)
}

func (h *DashboardHandler) parent(c *fiber.Ctx) error {
	result, err := h.service.ParentDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard", result)
}
