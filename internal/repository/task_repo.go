package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// TaskRepository handles persistence for tasks and submissions.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Task, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Task, error)

	// UpsertSubmission writes the submission keyed on (task_id, student_id):
	// atomic and idempotent at the single-row level.
	UpsertSubmission(ctx context.Context, submission *models.TaskSubmission) error
	GetSubmission(ctx context.Context, taskID, studentID string) (models.TaskSubmission, error)
	GetSubmissionByID(ctx context.Context, id string) (models.TaskSubmission, error)
	UpdateSubmission(ctx context.Context, submission *models.TaskSubmission) error
	ListSubmissionsByTask(ctx context.Context, taskID string) ([]models.TaskSubmission, error)
	ListSubmissionsByStudent(ctx context.Context, studentID string) ([]models.TaskSubmission, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs a task repository backed by GORM.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskSubmission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Order("due_date").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("due_date").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) UpsertSubmission(ctx context.Context, submission *models.TaskSubmission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "submitted_at"}),
		}).
		Create(submission).Error
}

func (r *taskRepository) GetSubmission(ctx context.Context, taskID, studentID string) (models.TaskSubmission, error) {
	var submission models.TaskSubmission
	if err := r.db.WithContext(ctx).
		First(&submission, "task_id = ? AND student_id = ?", taskID, studentID).Error; err != nil {
		return models.TaskSubmission{}, err
	}

	return submission, nil
}

func (r *taskRepository) GetSubmissionByID(ctx context.Context, id string) (models.TaskSubmission, error) {
	var submission models.TaskSubmission
	if err := r.db.WithContext(ctx).
		Preload("Task").
		First(&submission, "id = ?", id).Error; err != nil {
		return models.TaskSubmission{}, err
	}

	return submission, nil
}

func (r *taskRepository) UpdateSubmission(ctx context.Context, submission *models.TaskSubmission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error
}

func (r *taskRepository) ListSubmissionsByTask(ctx context.Context, taskID string) ([]models.TaskSubmission, error) {
	var submissions []models.TaskSubmission
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *taskRepository) ListSubmissionsByStudent(ctx context.Context, studentID string) ([]models.TaskSubmission, error) {
	var submissions []models.TaskSubmission
	if err := r.db.WithContext(ctx).
		Preload("Task").
		Where("student_id = ?", studentID).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
