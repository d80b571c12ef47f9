package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateTaskRequest assigns homework to a batch.
type CreateTaskRequest struct {
	BatchID     string    `json:"batch_id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=10000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// UpdateTaskRequest captures partial updates for a task.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	DueDate     *time.Time `json:"due_date"`
}

// ToggleSubmissionRequest sets a student's completion flag for a task.
type ToggleSubmissionRequest struct {
	IsCompleted bool `json:"is_completed"`
}

// GradeSubmissionRequest records a grade on an existing submission.
type GradeSubmissionRequest struct {
	Grade float64 `json:"grade" validate:"gte=0,lte=100"`
}

// TaskResponse serializes a task. PastDue is derived from the due date at
// response time.
type TaskResponse struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	PastDue     bool      `json:"past_due"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskSubmissionResponse serializes a student's completion state.
type TaskSubmissionResponse struct {
	ID          string        `json:"id"`
	TaskID      string        `json:"task_id"`
	StudentID   string        `json:"student_id"`
	IsCompleted bool          `json:"is_completed"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	Grade       *float64      `json:"grade,omitempty"`
	Task        *TaskResponse `json:"task,omitempty"`
}

// NewTaskResponse converts a task model into a DTO.
func NewTaskResponse(task models.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		BatchID:     task.BatchID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		PastDue:     task.IsPastDue(now),
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
	}
}

// NewTaskResponseSlice converts a slice of task models.
func NewTaskResponseSlice(tasks []models.Task, now time.Time) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task, now))
	}

	return responses
}

// NewTaskSubmissionResponse converts a submission model into a DTO.
func NewTaskSubmissionResponse(submission models.TaskSubmission, now time.Time) TaskSubmissionResponse {
	response := TaskSubmissionResponse{
		ID:          submission.ID,
		TaskID:      submission.TaskID,
		StudentID:   submission.StudentID,
		IsCompleted: submission.IsCompleted,
		SubmittedAt: submission.SubmittedAt,
		Grade:       submission.Grade,
	}

	if submission.Task != nil {
		task := NewTaskResponse(*submission.Task, now)
		response.Task = &task
	}

	return response
}

// NewTaskSubmissionResponseSlice converts a slice of submission models.
func NewTaskSubmissionResponseSlice(submissions []models.TaskSubmission, now time.Time) []TaskSubmissionResponse {
	responses := make([]TaskSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewTaskSubmissionResponse(submission, now))
	}

	return responses
}
