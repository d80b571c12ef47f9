package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// EventHandler exposes event management and registration endpoints.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler constructs an event handler.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// RegisterAdmin wires the event management routes.
func (h *EventHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/events", h.create)
	router.Get("/events", h.list)
	router.Put("/events/:id", h.update)
	router.Delete("/events/:id", h.delete)
	router.Get("/events/:id/registrations", h.listRegistrations)
}

// RegisterStudent wires event browsing and registration for students.
func (h *EventHandler) RegisterStudent(router fiber.Router) {
	router.Get("/events", h.list)
	router.Post("/events/:id/register", h.register)
	router.Get("/events/registrations", h.myRegistrations)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateEventRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create event")
	}

	return utils.SendCreated(c, "event created", result)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list events")
	}

	return utils.SendSuccess(c, "events", result)
}

func (h *EventHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateEventRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update event")
	}

	return utils.SendSuccess(c, "event updated", result)
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete event")
	}

	return utils.SendSuccess(c, "event deleted", nil)
}

func (h *EventHandler) register(c *fiber.Ctx) error {
	result, err := h.service.Register(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to register for event")
	}

	return utils.SendCreated(c, "registered for event", result)
}

func (h *EventHandler) listRegistrations(c *fiber.Ctx) error {
	result, err := h.service.ListRegistrationsByEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list registrations")
	}

	return utils.SendSuccess(c, "registrations", result)
}

func (h *EventHandler) myRegistrations(c *fiber.Ctx) error {
	result, err := h.service.ListRegistrationsByStudent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list registrations")
	}

	return utils.SendSuccess(c, "registrations", result)
}
