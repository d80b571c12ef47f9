package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// TestHandler exposes test scheduling and marking endpoints.
type TestHandler struct {
	service service.TestService
	logger  zerolog.Logger
}

// NewTestHandler constructs a test handler.
func NewTestHandler(service service.TestService, logger zerolog.Logger) *TestHandler {
	return &TestHandler{
		service: service,
		logger:  logger.With().Str("component", "test_handler").Logger(),
	}
}

// RegisterStaff wires the scheduling and marking routes shared by admins
// and teachers.
func (h *TestHandler) RegisterStaff(router fiber.Router) {
	router.Post("/tests", h.create)
	router.Get("/tests", h.list)
	router.Get("/tests/:id", h.get)
	router.Put("/tests/:id", h.update)
	router.Delete("/tests/:id", h.delete)
	router.Get("/batches/:id/tests", h.listByBatch)
	router.Put("/tests/:id/marks", h.saveMarks)
	router.Get("/tests/:id/marks", h.listMarks)
	router.Put("/marks/:id/retest", h.scheduleRetest)
}

// RegisterStudent wires the student's own results and retest requests.
func (h *TestHandler) RegisterStudent(router fiber.Router) {
	router.Get("/marks", h.myMarks)
	router.Post("/marks/:id/retest-request", h.requestRetest)
}

// RegisterParent wires per-child result listings for parents.
func (h *TestHandler) RegisterParent(router fiber.Router) {
	router.Get("/children/:id/marks", h.childMarks)
}

func (h *TestHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to schedule test")
	}

	return utils.SendCreated(c, "test scheduled", result)
}

func (h *TestHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list tests")
	}

	return utils.SendSuccess(c, "tests", result)
}

func (h *TestHandler) get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load test")
	}

	return utils.SendSuccess(c, "test", result)
}

func (h *TestHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update test")
	}

	return utils.SendSuccess(c, "test updated", result)
}

func (h *TestHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete test")
	}

	return utils.SendSuccess(c, "test deleted", nil)
}

func (h *TestHandler) listByBatch(c *fiber.Ctx) error {
	result, err := h.service.ListByBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list tests")
	}

	return utils.SendSuccess(c, "tests", result)
}

func (h *TestHandler) saveMarks(c *fiber.Ctx) error {
	var payload dto.SaveMarksRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.SaveMarks(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to save marks")
	}

	return utils.SendSuccess(c, "marks saved", result)
}

func (h *TestHandler) listMarks(c *fiber.Ctx) error {
	result, err := h.service.ListMarksByTest(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list marks")
	}

	return utils.SendSuccess(c, "marks", result)
}

func (h *TestHandler) myMarks(c *fiber.Ctx) error {
	result, err := h.service.ListMarksByStudent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list marks")
	}

	return utils.SendSuccess(c, "marks", result)
}

func (h *TestHandler) childMarks(c *fiber.Ctx) error {
	result, err := h.service.ListChildMarks(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list marks")
	}

	return utils.SendSuccess(c, "marks", result)
}

func (h *TestHandler) requestRetest(c *fiber.Ctx) error {
	result, err := h.service.RequestRetest(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to request retest")
	}

	return utils.SendSuccess(c, "retest requested", result)
}

func (h *TestHandler) scheduleRetest(c *fiber.Ctx) error {
	var payload dto.ScheduleRetestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.ScheduleRetest(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to schedule retest")
	}

	return utils.SendSuccess(c, "retest scheduled", result)
}
