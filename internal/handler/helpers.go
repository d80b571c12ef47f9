package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

var errStatus = map[error]int{
	service.ErrProfileNotFound:      fiber.StatusNotFound,
	service.ErrBatchNotFound:        fiber.StatusNotFound,
	service.ErrStudentNotFound:      fiber.StatusNotFound,
	service.ErrClassNotFound:        fiber.StatusNotFound,
	service.ErrFeeNotFound:          fiber.StatusNotFound,
	service.ErrTestNotFound:         fiber.StatusNotFound,
	service.ErrMarkNotFound:         fiber.StatusNotFound,
	service.ErrTaskNotFound:         fiber.StatusNotFound,
	service.ErrSubmissionNotFound:   fiber.StatusNotFound,
	service.ErrNoteNotFound:         fiber.StatusNotFound,
	service.ErrEventNotFound:        fiber.StatusNotFound,
	service.ErrTestimonialNotFound:  fiber.StatusNotFound,
	service.ErrNotificationNotFound: fiber.StatusNotFound,
	service.ErrEmailTaken:           fiber.StatusConflict,
	service.ErrAlreadyRegistered:    fiber.StatusConflict,
	service.ErrDuplicateAttendance:  fiber.StatusBadRequest,
	service.ErrDuplicateMark:        fiber.StatusBadRequest,
	service.ErrMarksExceedMax:       fiber.StatusBadRequest,
	service.ErrNotPDF:               fiber.StatusBadRequest,
	service.ErrMissingFile:          fiber.StatusBadRequest,
	service.ErrEmptyBatch:           fiber.StatusBadRequest,
	service.ErrNoRecipients:         fiber.StatusBadRequest,
	service.ErrUnknownRole:          fiber.StatusBadRequest,
	service.ErrInvalidCredentials:   fiber.StatusUnauthorized,
	utils.ErrInvalidToken:           fiber.StatusUnauthorized,
	service.ErrNotMarkOwner:         fiber.StatusForbidden,
}

// sendServiceError maps service sentinel errors to their HTTP status,
// treating anything unmapped as a server failure.
func sendServiceError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	for sentinel, status := range errStatus {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, status, sentinel.Error())
		}
	}

	logger.Error().Err(err).Msg(fallback)

	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) zerolog.Logger {
	if correlation := middleware.GetCorrelationID(c); correlation != "" {
		return base.With().Str("correlation_id", correlation).Logger()
	}

	return base
}
