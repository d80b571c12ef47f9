package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// BatchHandler exposes batch management endpoints.
type BatchHandler struct {
	service service.BatchService
	logger  zerolog.Logger
}

// NewBatchHandler constructs a batch handler.
func NewBatchHandler(service service.BatchService, logger zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger.With().Str("component", "batch_handler").Logger(),
	}
}

// RegisterAdmin wires the admin batch routes.
func (h *BatchHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/batches", h.create)
	router.Get("/batches", h.list)
	router.Get("/batches/:id", h.get)
	router.Put("/batches/:id", h.update)
	router.Delete("/batches/:id", h.delete)
}

// RegisterTeacher wires the teacher's own-batches listing.
func (h *BatchHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/batches", h.listMine)
}

func (h *BatchHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create batch")
	}

	return utils.SendCreated(c, "batch created", result)
}

func (h *BatchHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list batches")
	}

	return utils.SendSuccess(c, "batches", result)
}

func (h *BatchHandler) listMine(c *fiber.Ctx) error {
	result, err := h.service.ListByTeacher(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list batches")
	}

	return utils.SendSuccess(c, "batches", result)
}

func (h *BatchHandler) get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load batch")
	}

	return utils.SendSuccess(c, "batch", result)
}

func (h *BatchHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update batch")
	}

	return utils.SendSuccess(c, "batch updated", result)
}

func (h *BatchHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete batch")
	}

	return utils.SendSuccess(c, "batch deleted", nil)
}
