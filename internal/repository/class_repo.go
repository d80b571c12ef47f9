package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// ClassRepository handles persistence for scheduled classes.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
	ListByBatch(ctx context.Context, batchID string) ([]models.Class, error)
	ListByBatches(ctx context.Context, batchIDs []string) ([]models.Class, error)
	CountUpcoming(ctx context.Context, after time.Time) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a class repository backed by GORM.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id string) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Class{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *classRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("date DESC").
		Order("time DESC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) CountUpcoming(ctx context.Context, after time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("date >= ? AND is_completed = ?", after, false).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *classRepository) ListByBatches(ctx context.Context, batchIDs []string) ([]models.Class, error) {
	if len(batchIDs) == 0 {
		return []models.Class{}, nil
	}

	var classes []models.Class
	if err := r.db.WithContext(ctx).
		Where("batch_id IN ?", batchIDs).
		Order("date DESC").
		Order("time DESC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}
