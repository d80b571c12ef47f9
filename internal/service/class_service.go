package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrClassNotFound indicates the requested class does not exist.
var ErrClassNotFound = errors.New("class not found")

// ClassService exposes class scheduling use cases.
type ClassService interface {
	Create(ctx context.Context, payload dto.CreateClassRequest) (dto.ClassResponse, error)
	Get(ctx context.Context, id string) (dto.ClassResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateClassRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, id string) error
	ListByBatch(ctx context.Context, batchID string) ([]dto.ClassResponse, error)
}

type classService struct {
	classes   repository.ClassRepository
	batches   repository.BatchRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
}

// NewClassService builds a new class service.
func NewClassService(
	classes repository.ClassRepository,
	batches repository.BatchRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) ClassService {
	return &classService{
		classes:   classes,
		batches:   batches,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, payload dto.CreateClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	if _, err := s.batches.GetByID(ctx, payload.BatchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrBatchNotFound
		}

		return dto.ClassResponse{}, err
	}

	class := models.Class{
		BatchID:         payload.BatchID,
		Subject:         payload.Subject,
		Date:            payload.Date,
		Time:            payload.Time,
		DurationMinutes: payload.DurationMinutes,
		MeetLink:        payload.MeetLink,
	}
	if class.DurationMinutes == 0 {
		class.DurationMinutes = 60
	}

	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.publisher.Publish(ctx, "classes", realtime.ActionInsert, class.ID)
	s.logger.Info().Str("class_id", class.ID).Str("batch_id", class.BatchID).Msg("class scheduled")

	return dto.NewClassResponse(class), nil
}

func (s *classService) Get(ctx context.Context, id string) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}

		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) Update(ctx context.Context, id string, payload dto.UpdateClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}

		return dto.ClassResponse{}, err
	}

	if payload.Subject != nil {
		class.Subject = *payload.Subject
	}
	if payload.Date != nil {
		class.Date = *payload.Date
	}
	if payload.Time != nil {
		class.Time = *payload.Time
	}
	if payload.DurationMinutes != nil {
		class.DurationMinutes = *payload.DurationMinutes
	}
	if payload.MeetLink != nil {
		class.MeetLink = *payload.MeetLink
	}
	if payload.IsCompleted != nil {
		class.IsCompleted = *payload.IsCompleted
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.publisher.Publish(ctx, "classes", realtime.ActionUpdate, class.ID)

	return dto.NewClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "classes", realtime.ActionDelete, id)

	return nil
}

func (s *classService) ListByBatch(ctx context.Context, batchID string) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return dto.NewClassResponseSlice(classes), nil
}
