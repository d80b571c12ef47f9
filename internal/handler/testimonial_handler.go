package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// TestimonialHandler exposes testimonial endpoints.
type TestimonialHandler struct {
	service service.TestimonialService
	logger  zerolog.Logger
}

// NewTestimonialHandler constructs a testimonial handler.
func NewTestimonialHandler(service service.TestimonialService, logger zerolog.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		service: service,
		logger:  logger.With().Str("component", "testimonial_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated featured listing.
func (h *TestimonialHandler) RegisterPublic(router fiber.Router) {
	router.Get("/testimonials/featured", h.listFeatured)
}

// RegisterAdmin wires the testimonial management routes.
func (h *TestimonialHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/testimonials", h.create)
	router.Get("/testimonials", h.list)
	router.Put("/testimonials/:id", h.update)
	router.Delete("/testimonials/:id", h.delete)
}

func (h *TestimonialHandler) listFeatured(c *fiber.Ctx) error {
	result, err := h.service.ListFeatured(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list testimonials")
	}

	return utils.SendSuccess(c, "testimonials", result)
}

func (h *TestimonialHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateTestimonialRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create testimonial")
	}

	return utils.SendCreated(c, "testimonial created", result)
}

func (h *TestimonialHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list testimonials")
	}

	return utils.SendSuccess(c, "testimonials", result)
}

func (h *TestimonialHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateTestimonialRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update testimonial")
	}

	return utils.SendSuccess(c, "testimonial updated", result)
}

func (h *TestimonialHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete testimonial")
	}

	return utils.SendSuccess(c, "testimonial deleted", nil)
}
