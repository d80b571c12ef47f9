package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is homework assigned to a batch.
type Task struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID     string    `gorm:"type:uuid;not null;index" json:"batch_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	CreatedBy   *string   `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsPastDue reports whether the task is overdue at the given instant.
func (t Task) IsPastDue(now time.Time) bool {
	return t.DueDate.Before(now)
}

// TaskSubmission tracks a student's completion state for a task. The unique
// index on (task_id, student_id) backs the upsert that toggles completion.
type TaskSubmission struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      string     `gorm:"type:uuid;not null;uniqueIndex:idx_task_submissions_task_student" json:"task_id"`
	StudentID   string     `gorm:"type:uuid;not null;uniqueIndex:idx_task_submissions_task_student" json:"student_id"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Grade       *float64   `json:"grade,omitempty"`
	Task        *Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (s *TaskSubmission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
