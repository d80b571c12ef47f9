package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrBatchNotFound indicates the requested batch does not exist.
var ErrBatchNotFound = errors.New("batch not found")

// BatchService exposes batch management use cases.
type BatchService interface {
	Create(ctx context.Context, payload dto.CreateBatchRequest) (dto.BatchResponse, error)
	Get(ctx context.Context, id string) (dto.BatchResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateBatchRequest) (dto.BatchResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.BatchResponse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.BatchResponse, error)
}

type batchService struct {
	repo      repository.BatchRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBatchService builds a new batch service.
func NewBatchService(
	repo repository.BatchRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) BatchService {
	return &batchService{
		repo:      repo,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "batch_service").Logger(),
		now:       time.Now,
	}
}

func (s *batchService) Create(ctx context.Context, payload dto.CreateBatchRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	batch := models.Batch{
		Name:      payload.Name,
		Board:     payload.Board,
		Grade:     payload.Grade,
		Mode:      payload.Mode,
		TeacherID: payload.TeacherID,
	}
	if err := s.repo.Create(ctx, &batch); err != nil {
		return dto.BatchResponse{}, err
	}

	s.publisher.Publish(ctx, "batches", realtime.ActionInsert, batch.ID)
	s.logger.Info().Str("batch_id", batch.ID).Str("name", batch.Name).Msg("batch created")

	return dto.NewBatchResponse(batch), nil
}

func (s *batchService) Get(ctx context.Context, id string) (dto.BatchResponse, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}

		return dto.BatchResponse{}, err
	}

	return dto.NewBatchResponse(batch), nil
}

func (s *batchService) Update(ctx context.Context, id string, payload dto.UpdateBatchRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}

		return dto.BatchResponse{}, err
	}

	if payload.Name != nil {
		batch.Name = *payload.Name
	}
	if payload.Board != nil {
		batch.Board = *payload.Board
	}
	if payload.Grade != nil {
		batch.Grade = *payload.Grade
	}
	if payload.Mode != nil {
		batch.Mode = *payload.Mode
	}
	if payload.TeacherID != nil {
		batch.TeacherID = payload.TeacherID
	}

	if err := s.repo.Update(ctx, &batch); err != nil {
		return dto.BatchResponse{}, err
	}

	s.publisher.Publish(ctx, "batches", realtime.ActionUpdate, batch.ID)

	return dto.NewBatchResponse(batch), nil
}

func (s *batchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "batches", realtime.ActionDelete, id)

	return nil
}

func (s *batchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewBatchResponseSlice(batches), nil
}

func (s *batchService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.BatchResponse, error) {
	batches, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewBatchResponseSlice(batches), nil
}
