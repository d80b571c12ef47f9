package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// BatchRepository handles persistence for batch records.
type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id string) (models.Batch, error)
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Batch, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Batch, error)
	Count(ctx context.Context) (int64, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository constructs a batch repository backed by GORM.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return models.Batch{}, err
	}

	return batch, nil
}

func (r *batchRepository) Update(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Batch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *batchRepository) List(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.WithContext(ctx).Order("name").Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *batchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Batch{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *batchRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("name").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}
