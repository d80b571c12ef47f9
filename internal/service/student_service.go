package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// ErrStudentNotFound indicates the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// verifyChild confirms the student exists and is linked to the parent.
// Students of other parents read as not found so their existence leaks
// nothing.
func verifyChild(ctx context.Context, students repository.StudentRepository, parentID, studentID string) error {
	student, err := students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}

		return err
	}

	if student.ParentID == nil || *student.ParentID != parentID {
		return ErrStudentNotFound
	}

	return nil
}

// StudentService exposes student enrollment and management use cases.
type StudentService interface {
	// Enroll creates the account profile, grants the student role and
	// writes the student record sharing the profile's id.
	Enroll(ctx context.Context, payload dto.CreateStudentRequest) (dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateStudentRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.StudentResponse, error)
	ListByBatch(ctx context.Context, batchID string) ([]dto.StudentResponse, error)
	ListByParent(ctx context.Context, parentID string) ([]dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	profiles  repository.ProfileRepository
	roles     repository.RoleRepository
	batches   repository.BatchRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService builds a new student service.
func NewStudentService(
	students repository.StudentRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	batches repository.BatchRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:  students,
		profiles:  profiles,
		roles:     roles,
		batches:   batches,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) Enroll(ctx context.Context, payload dto.CreateStudentRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if payload.BatchID != nil {
		if _, err := s.batches.GetByID(ctx, *payload.BatchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrBatchNotFound
			}

			return dto.StudentResponse{}, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return dto.StudentResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	profile := models.Profile{
		FullName:     strings.TrimSpace(payload.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(payload.Phone),
		Role:         models.RoleStudent,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.StudentResponse{}, err
	}

	if err := s.roles.Grant(ctx, profile.ID, models.RoleStudent); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		ID:            profile.ID,
		Board:         payload.Board,
		Grade:         payload.Grade,
		AdmissionDate: payload.AdmissionDate,
		BatchID:       payload.BatchID,
		ParentID:      payload.ParentID,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}
	student.Profile = &profile

	if payload.ParentID != nil {
		if err := s.roles.Grant(ctx, *payload.ParentID, models.RoleParent); err != nil {
			return dto.StudentResponse{}, err
		}
	}

	s.publisher.Publish(ctx, "students", realtime.ActionInsert, student.ID)
	s.logger.Info().Str("student_id", student.ID).Msg("student enrolled")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}

		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.UpdateStudentRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}

		return dto.StudentResponse{}, err
	}

	if payload.BatchID != nil {
		if _, err := s.batches.GetByID(ctx, *payload.BatchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrBatchNotFound
			}

			return dto.StudentResponse{}, err
		}
		student.BatchID = payload.BatchID
	}
	if payload.Board != nil {
		student.Board = *payload.Board
	}
	if payload.Grade != nil {
		student.Grade = *payload.Grade
	}
	if payload.AdmissionDate != nil {
		student.AdmissionDate = payload.AdmissionDate
	}
	if payload.ParentID != nil {
		student.ParentID = payload.ParentID
		if err := s.roles.Grant(ctx, *payload.ParentID, models.RoleParent); err != nil {
			return dto.StudentResponse{}, err
		}
	}

	if err := s.students.Save(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.publisher.Publish(ctx, "students", realtime.ActionUpdate, student.ID)

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "students", realtime.ActionDelete, id)

	return nil
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) ListByBatch(ctx context.Context, batchID string) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) ListByParent(ctx context.Context, parentID string) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}
