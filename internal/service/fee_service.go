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

// ErrFeeNotFound indicates the requested fee does not exist.
var ErrFeeNotFound = errors.New("fee not found")

// ErrEmptyBatch indicates a batch fan-out found no students to bill.
var ErrEmptyBatch = errors.New("batch has no students")

// FeeService exposes fee tracking use cases.
type FeeService interface {
	Create(ctx context.Context, payload dto.CreateFeeRequest) (dto.FeeResponse, error)
	// CreateForBatch records the same installment for every student
	// currently in the batch.
	CreateForBatch(ctx context.Context, payload dto.CreateBatchFeesRequest) ([]dto.FeeResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateFeeRequest) (dto.FeeResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.FeeResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.FeeResponse, error)
	// ListChildFees is ListByStudent restricted to the caller's own
	// children.
	ListChildFees(ctx context.Context, parentID, studentID string) ([]dto.FeeResponse, error)
	Totals(ctx context.Context) (dto.FeeTotalsResponse, error)
}

type feeService struct {
	fees      repository.FeeRepository
	students  repository.StudentRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFeeService builds a new fee service.
func NewFeeService(
	fees repository.FeeRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) FeeService {
	return &feeService{
		fees:      fees,
		students:  students,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "fee_service").Logger(),
		now:       time.Now,
	}
}

func (s *feeService) Create(ctx context.Context, payload dto.CreateFeeRequest) (dto.FeeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeeResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeResponse{}, ErrStudentNotFound
		}

		return dto.FeeResponse{}, err
	}

	fee := models.Fee{
		StudentID: payload.StudentID,
		Amount:    payload.Amount,
		DueDate:   payload.DueDate,
		Status:    models.FeeStatusPending,
	}
	if payload.Status != "" {
		fee.Status = payload.Status
	}
	if fee.Status == models.FeeStatusPaid {
		paid := s.now().UTC()
		fee.PaidDate = &paid
	}

	if err := s.fees.Create(ctx, &fee); err != nil {
		return dto.FeeResponse{}, err
	}

	s.publisher.Publish(ctx, "fees", realtime.ActionInsert, fee.ID)

	return dto.NewFeeResponse(fee), nil
}

func (s *feeService) CreateForBatch(ctx context.Context, payload dto.CreateBatchFeesRequest) ([]dto.FeeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	studentIDs, err := s.students.ListIDsByBatch(ctx, payload.BatchID)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return nil, ErrEmptyBatch
	}

	fees := make([]models.Fee, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		fees = append(fees, models.Fee{
			StudentID: studentID,
			Amount:    payload.Amount,
			DueDate:   payload.DueDate,
			Status:    models.FeeStatusPending,
		})
	}

	if err := s.fees.CreateBatch(ctx, fees); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, "fees", realtime.ActionInsert, payload.BatchID)
	s.logger.Info().Str("batch_id", payload.BatchID).Int("students", len(fees)).Msg("batch fees recorded")

	return dto.NewFeeResponseSlice(fees), nil
}

func (s *feeService) Update(ctx context.Context, id string, payload dto.UpdateFeeRequest) (dto.FeeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeeResponse{}, err
	}

	fee, err := s.fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeResponse{}, ErrFeeNotFound
		}

		return dto.FeeResponse{}, err
	}

	if payload.Amount != nil {
		fee.Amount = *payload.Amount
	}
	if payload.DueDate != nil {
		fee.DueDate = *payload.DueDate
	}
	if payload.Status != nil && *payload.Status != fee.Status {
		fee.Status = *payload.Status
		if fee.Status == models.FeeStatusPaid {
			paid := s.now().UTC()
			fee.PaidDate = &paid
		} else {
			fee.PaidDate = nil
		}
	}

	if err := s.fees.Update(ctx, &fee); err != nil {
		return dto.FeeResponse{}, err
	}

	s.publisher.Publish(ctx, "fees", realtime.ActionUpdate, fee.ID)

	return dto.NewFeeResponse(fee), nil
}

func (s *feeService) Delete(ctx context.Context, id string) error {
	if err := s.fees.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeeNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "fees", realtime.ActionDelete, id)

	return nil
}

func (s *feeService) List(ctx context.Context) ([]dto.FeeResponse, error) {
	fees, err := s.fees.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewFeeResponseSlice(fees), nil
}

func (s *feeService) ListByStudent(ctx context.Context, studentID string) ([]dto.FeeResponse, error) {
	fees, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewFeeResponseSlice(fees), nil
}

func (s *feeService) ListChildFees(ctx context.Context, parentID, studentID string) ([]dto.FeeResponse, error) {
	if err := verifyChild(ctx, s.students, parentID, studentID); err != nil {
		return nil, err
	}

	return s.ListByStudent(ctx, studentID)
}

func (s *feeService) Totals(ctx context.Context) (dto.FeeTotalsResponse, error) {
	totals, err := s.fees.TotalsByStatus(ctx)
	if err != nil {
		return dto.FeeTotalsResponse{}, err
	}

	return dto.FeeTotalsResponse{
		TotalPaid:    totals[models.FeeStatusPaid],
		TotalPending: totals[models.FeeStatusPending],
		TotalOverdue: totals[models.FeeStatusOverdue],
	}, nil
}
