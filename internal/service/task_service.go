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

// ErrTaskNotFound indicates the requested task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// ErrSubmissionNotFound indicates the requested submission does not exist.
var ErrSubmissionNotFound = errors.New("submission not found")

// TaskService exposes homework tracking use cases.
type TaskService interface {
	Create(ctx context.Context, payload dto.CreateTaskRequest, createdBy string) (dto.TaskResponse, error)
	Get(ctx context.Context, id string) (dto.TaskResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateTaskRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
	ListByBatch(ctx context.Context, batchID string) ([]dto.TaskResponse, error)

	// ToggleSubmission upserts the student's completion row: re-toggling
	// flips the flag in place instead of creating a second row.
	ToggleSubmission(ctx context.Context, taskID, studentID string, payload dto.ToggleSubmissionRequest) (dto.TaskSubmissionResponse, error)
	GradeSubmission(ctx context.Context, submissionID string, payload dto.GradeSubmissionRequest) (dto.TaskSubmissionResponse, error)
	ListSubmissionsByTask(ctx context.Context, taskID string) ([]dto.TaskSubmissionResponse, error)
	ListSubmissionsByStudent(ctx context.Context, studentID string) ([]dto.TaskSubmissionResponse, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTaskService builds a new task service.
func NewTaskService(
	tasks repository.TaskRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) TaskService {
	return &taskService{
		tasks:     tasks,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "task_service").Logger(),
		now:       time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, payload dto.CreateTaskRequest, createdBy string) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		BatchID:     payload.BatchID,
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     payload.DueDate,
	}
	if createdBy != "" {
		task.CreatedBy = &createdBy
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.publisher.Publish(ctx, "tasks", realtime.ActionInsert, task.ID)

	return dto.NewTaskResponse(task, s.now()), nil
}

func (s *taskService) Get(ctx context.Context, id string) (dto.TaskResponse, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}

		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task, s.now()), nil
}

func (s *taskService) Update(ctx context.Context, id string, payload dto.UpdateTaskRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}

		return dto.TaskResponse{}, err
	}

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = *payload.Description
	}
	if payload.DueDate != nil {
		task.DueDate = *payload.DueDate
	}

	if err := s.tasks.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.publisher.Publish(ctx, "tasks", realtime.ActionUpdate, task.ID)

	return dto.NewTaskResponse(task, s.now()), nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "tasks", realtime.ActionDelete, id)

	return nil
}

func (s *taskService) ListByBatch(ctx context.Context, batchID string) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskResponseSlice(tasks, s.now()), nil
}

func (s *taskService) ToggleSubmission(ctx context.Context, taskID, studentID string, payload dto.ToggleSubmissionRequest) (dto.TaskSubmissionResponse, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskSubmissionResponse{}, ErrTaskNotFound
		}

		return dto.TaskSubmissionResponse{}, err
	}

	submission := models.TaskSubmission{
		TaskID:      taskID,
		StudentID:   studentID,
		IsCompleted: payload.IsCompleted,
	}
	if payload.IsCompleted {
		submittedAt := s.now().UTC()
		submission.SubmittedAt = &submittedAt
	}

	if err := s.tasks.UpsertSubmission(ctx, &submission); err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	// Re-read after the upsert: on conflict the insert id is discarded and
	// the existing row keeps its grade.
	stored, err := s.tasks.GetSubmission(ctx, taskID, studentID)
	if err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	s.publisher.Publish(ctx, "task_submissions", realtime.ActionUpdate, stored.ID)

	return dto.NewTaskSubmissionResponse(stored, s.now()), nil
}

func (s *taskService) GradeSubmission(ctx context.Context, submissionID string, payload dto.GradeSubmissionRequest) (dto.TaskSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	submission, err := s.tasks.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskSubmissionResponse{}, ErrSubmissionNotFound
		}

		return dto.TaskSubmissionResponse{}, err
	}

	grade := payload.Grade
	submission.Grade = &grade
	if err := s.tasks.UpdateSubmission(ctx, &submission); err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	s.publisher.Publish(ctx, "task_submissions", realtime.ActionUpdate, submission.ID)

	return dto.NewTaskSubmissionResponse(submission, s.now()), nil
}

func (s *taskService) ListSubmissionsByTask(ctx context.Context, taskID string) ([]dto.TaskSubmissionResponse, error) {
	submissions, err := s.tasks.ListSubmissionsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskSubmissionResponseSlice(submissions, s.now()), nil
}

func (s *taskService) ListSubmissionsByStudent(ctx context.Context, studentID string) ([]dto.TaskSubmissionResponse, error) {
	submissions, err := s.tasks.ListSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskSubmissionResponseSlice(submissions, s.now()), nil
}
