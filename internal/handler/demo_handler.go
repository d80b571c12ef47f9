package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// DemoHandler exposes demo class booking endpoints.
type DemoHandler struct {
	service service.DemoService
	logger  zerolog.Logger
}

// NewDemoHandler constructs a demo booking handler.
func NewDemoHandler(service service.DemoService, logger zerolog.Logger) *DemoHandler {
	return &DemoHandler{
		service: service,
		logger:  logger.With().Str("component", "demo_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated booking route.
func (h *DemoHandler) RegisterPublic(router fiber.Router) {
	router.Post("/demo-bookings", h.book)
}

// RegisterAdmin wires the booking review routes.
func (h *DemoHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/demo-bookings", h.list)
}

func (h *DemoHandler) book(c *fiber.Ctx) error {
	var payload dto.CreateDemoBookingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Book(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to book demo class")
	}

	return utils.SendCreated(c, "demo class booked", result)
}

func (h *DemoHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list demo bookings")
	}

	return utils.SendSuccess(c, "demo bookings", result)
}
