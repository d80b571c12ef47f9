package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// NotificationHandler exposes notification sending and inbox endpoints.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// RegisterAdmin wires the broadcast route.
func (h *NotificationHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/notifications", h.send)
}

// RegisterSelf wires the authenticated user's inbox routes.
func (h *NotificationHandler) RegisterSelf(router fiber.Router) {
	router.Get("/notifications", h.list)
	router.Get("/notifications/unread-count", h.unreadCount)
	router.Put("/notifications/:id/read", h.markRead)
}

func (h *NotificationHandler) send(c *fiber.Ctx) error {
	var payload dto.SendNotificationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Send(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to send notification")
	}

	return utils.SendCreated(c, "notification sent", result)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext(), middleware.UserID(c), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", result)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	result, err := h.service.MarkRead(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to mark notification read")
	}

	return utils.SendSuccess(c, "notification marked read", result)
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	result, err := h.service.UnreadCount(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to count unread notifications")
	}

	return utils.SendSuccess(c, "unread count", result)
}
