package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// ClassHandler exposes class scheduling endpoints.
type ClassHandler struct {
	service service.ClassService
	logger  zerolog.Logger
}

// NewClassHandler constructs a class handler.
func NewClassHandler(service service.ClassService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// RegisterStaff wires the scheduling routes shared by admins and teachers.
func (h *ClassHandler) RegisterStaff(router fiber.Router) {
	router.Post("/classes", h.create)
	router.Get("/classes/:id", h.get)
	router.Put("/classes/:id", h.update)
	router.Delete("/classes/:id", h.delete)
	router.Get("/batches/:id/classes", h.listByBatch)
}

// RegisterStudent wires the read-only schedule view.
func (h *ClassHandler) RegisterStudent(router fiber.Router) {
	router.Get("/batches/:id/classes", h.listByBatch)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to schedule class")
	}

	return utils.SendCreated(c, "class scheduled", result)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load class")
	}

	return utils.SendSuccess(c, "class", result)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update class")
	}

	return utils.SendSuccess(c, "class updated", result)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete class")
	}

	return utils.SendSuccess(c, "class deleted", nil)
}

func (h *ClassHandler) listByBatch(c *fiber.Ctx) error {
	result, err := h.service.ListByBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list classes")
	}

	return utils.SendSuccess(c, "classes", result)
}
