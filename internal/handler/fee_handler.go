package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// FeeHandler exposes fee tracking endpoints.
type FeeHandler struct {
	service service.FeeService
	logger  zerolog.Logger
}

// NewFeeHandler constructs a fee handler.
func NewFeeHandler(service service.FeeService, logger zerolog.Logger) *FeeHandler {
	return &FeeHandler{
		service: service,
		logger:  logger.With().Str("component", "fee_handler").Logger(),
	}
}

// RegisterAdmin wires the admin fee routes.
func (h *FeeHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/fees", h.create)
	router.Post("/fees/batch", h.createForBatch)
	router.Get("/fees", h.list)
	router.Get("/fees/totals", h.totals)
	router.Put("/fees/:id", h.update)
	router.Delete("/fees/:id", h.delete)
	router.Get("/students/:id/fees", h.listByStudent)
}

// RegisterStudent wires the student's own fee listing.
func (h *FeeHandler) RegisterStudent(router fiber.Router) {
	router.Get("/fees", h.listMine)
}

// RegisterParent wires per-child fee listings for parents.
func (h *FeeHandler) RegisterParent(router fiber.Router) {
	router.Get("/children/:id/fees", h.listChildFees)
}

func (h *FeeHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateFeeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to record fee")
	}

	return utils.SendCreated(c, "fee recorded", result)
}

func (h *FeeHandler) createForBatch(c *fiber.Ctx) error {
	var payload dto.CreateBatchFeesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.CreateForBatch(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to record batch fees")
	}

	return utils.SendCreated(c, "batch fees recorded", result)
}

func (h *FeeHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list fees")
	}

	return utils.SendSuccess(c, "fees", result)
}

func (h *FeeHandler) totals(c *fiber.Ctx) error {
	result, err := h.service.Totals(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to compute fee totals")
	}

	return utils.SendSuccess(c, "fee totals", result)
}

func (h *FeeHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateFeeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update fee")
	}

	return utils.SendSuccess(c, "fee updated", result)
}

func (h *FeeHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete fee")
	}

	return utils.SendSuccess(c, "fee deleted", nil)
}

func (h *FeeHandler) listByStudent(c *fiber.Ctx) error {
	result, err := h.service.ListByStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list fees")
	}

	return utils.SendSuccess(c, "fees", result)
}

func (h *FeeHandler) listChildFees(c *fiber.Ctx) error {
	result, err := h.service.ListChildFees(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list fees")
	}

	return utils.SendSuccess(c, "fees", result)
}

func (h *FeeHandler) listMine(c *fiber.Ctx) error {
	result, err := h.service.ListByStudent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list fees")
	}

	return utils.SendSuccess(c, "fees", result)
}
