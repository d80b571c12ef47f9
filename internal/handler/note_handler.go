package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// NoteHandler exposes study-material endpoints.
type NoteHandler struct {
	service service.NoteService
	logger  zerolog.Logger
}

// NewNoteHandler constructs a note handler.
func NewNoteHandler(service service.NoteService, logger zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		service: service,
		logger:  logger.With().Str("component", "note_handler").Logger(),
	}
}

// RegisterStaff wires the upload and delete routes shared by admins and
// teachers.
func (h *NoteHandler) RegisterStaff(router fiber.Router) {
	router.Post("/classes/:id/notes", h.upload)
	router.Get("/classes/:id/notes", h.listByClass)
	router.Delete("/notes/:id", h.delete)
}

// RegisterStudent wires the read-only notes listing.
func (h *NoteHandler) RegisterStudent(router fiber.Router) {
	router.Get("/classes/:id/notes", h.listByClass)
}

func (h *NoteHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}
	title := strings.TrimSpace(c.FormValue("title"))

	result, err := h.service.Upload(c.UserContext(), c.Params("id"), title, middleware.UserID(c), file)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to upload note")
	}

	return utils.SendCreated(c, "note uploaded", result)
}

func (h *NoteHandler) listByClass(c *fiber.Ctx) error {
	result, err := h.service.ListByClass(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list notes")
	}

	return utils.SendSuccess(c, "notes", result)
}

func (h *NoteHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete note")
	}

	return utils.SendSuccess(c, "note deleted", nil)
}
