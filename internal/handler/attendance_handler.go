package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// AttendanceHandler exposes attendance marking and history endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// RegisterStaff wires the marking routes shared by admins and teachers.
func (h *AttendanceHandler) RegisterStaff(router fiber.Router) {
	router.Put("/classes/:id/attendance", h.save)
	router.Get("/classes/:id/attendance", h.listByClass)
	router.Get("/students/:id/attendance/summary", h.summary)
}

// RegisterStudent wires the student's own attendance summary.
func (h *AttendanceHandler) RegisterStudent(router fiber.Router) {
	router.Get("/attendance/summary", h.mySummary)
}

// RegisterParent wires per-child summaries for parents.
func (h *AttendanceHandler) RegisterParent(router fiber.Router) {
	router.Get("/children/:id/attendance/summary", h.childSummary)
}

func (h *AttendanceHandler) save(c *fiber.Ctx) error {
	var payload dto.SaveAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Save(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to save attendance")
	}

	return utils.SendSuccess(c, "attendance saved", result)
}

func (h *AttendanceHandler) listByClass(c *fiber.Ctx) error {
	result, err := h.service.ListByClass(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list attendance")
	}

	return utils.SendSuccess(c, "attendance", result)
}

func (h *AttendanceHandler) summary(c *fiber.Ctx) error {
	result, err := h.service.Summary(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build attendance summary")
	}

	return utils.SendSuccess(c, "attendance summary", result)
}

func (h *AttendanceHandler) childSummary(c *fiber.Ctx) error {
	result, err := h.service.ChildSummary(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build attendance summary")
	}

	return utils.SendSuccess(c, "attendance summary", result)
}

func (h *AttendanceHandler) mySummary(c *fiber.Ctx) error {
	result, err := h.service.Summary(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build attendance summary")
	}

	return utils.SendSuccess(c, "attendance summary", result)
}
