package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// StudentHandler exposes student management endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// RegisterAdmin wires the admin student routes.
func (h *StudentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/students", h.enroll)
	router.Get("/students", h.list)
	router.Get("/students/:id", h.get)
	router.Put("/students/:id", h.update)
	router.Delete("/students/:id", h.delete)
	router.Get("/batches/:id/students", h.listByBatch)
}

// RegisterTeacher wires batch rosters for teachers.
func (h *StudentHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/batches/:id/students", h.listByBatch)
}

// RegisterParent wires the parent's children listing.
func (h *StudentHandler) RegisterParent(router fiber.Router) {
	router.Get("/children", h.listChildren)
}

func (h *StudentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.CreateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Enroll(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to enroll student")
	}

	return utils.SendCreated(c, "student enrolled", result)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list students")
	}

	return utils.SendSuccess(c, "students", result)
}

func (h *StudentHandler) listByBatch(c *fiber.Ctx) error {
	result, err := h.service.ListByBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list students")
	}

	return utils.SendSuccess(c, "students", result)
}

func (h *StudentHandler) listChildren(c *fiber.Ctx) error {
	result, err := h.service.ListByParent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list children")
	}

	return utils.SendSuccess(c, "children", result)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load student")
	}

	return utils.SendSuccess(c, "student", result)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", result)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
