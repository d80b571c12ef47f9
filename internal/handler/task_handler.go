package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// TaskHandler exposes homework tracking endpoints.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// RegisterStaff wires the task management routes shared by admins and
// teachers.
func (h *TaskHandler) RegisterStaff(router fiber.Router) {
	router.Post("/tasks", h.create)
	router.Get("/tasks/:id", h.get)
	router.Put("/tasks/:id", h.update)
	router.Delete("/tasks/:id", h.delete)
	router.Get("/batches/:id/tasks", h.listByBatch)
	router.Get("/tasks/:id/submissions", h.listSubmissions)
	router.Put("/submissions/:id/grade", h.grade)
}

// RegisterStudent wires the student's own task routes.
func (h *TaskHandler) RegisterStudent(router fiber.Router) {
	router.Get("/batches/:id/tasks", h.listByBatch)
	router.Get("/submissions", h.mySubmissions)
	router.Put("/tasks/:id/submission", h.toggle)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateTaskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload, middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create task")
	}

	return utils.SendCreated(c, "task created", result)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load task")
	}

	return utils.SendSuccess(c, "task", result)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateTaskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update task")
	}

	return utils.SendSuccess(c, "task updated", result)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete task")
	}

	return utils.SendSuccess(c, "task deleted", nil)
}

func (h *TaskHandler) listByBatch(c *fiber.Ctx) error {
	result, err := h.service.ListByBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks", result)
}

func (h *TaskHandler) toggle(c *fiber.Ctx) error {
	var payload dto.ToggleSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.ToggleSubmission(c.UserContext(), c.Params("id"), middleware.UserID(c), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update submission")
	}

	return utils.SendSuccess(c, "submission updated", result)
}

func (h *TaskHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.GradeSubmission(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to grade submission")
	}

	return utils.SendSuccess(c, "submission graded", result)
}

func (h *TaskHandler) listSubmissions(c *fiber.Ctx) error {
	result, err := h.service.ListSubmissionsByTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions", result)
}

func (h *TaskHandler) mySubmissions(c *fiber.Ctx) error {
	result, err := h.service.ListSubmissionsByStudent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions", result)
}
