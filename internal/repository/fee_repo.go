package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// FeeRepository handles persistence for fee records.
type FeeRepository interface {
	Create(ctx context.Context, fee *models.Fee) error
	// CreateBatch inserts the rows in a single statement, all-or-nothing at
	// the call level.
	CreateBatch(ctx context.Context, fees []models.Fee) error
	GetByID(ctx context.Context, id string) (models.Fee, error)
	Update(ctx context.Context, fee *models.Fee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Fee, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
	// TotalsByStatus sums amounts grouped by status. Absent statuses are
	// simply missing from the map.
	TotalsByStatus(ctx context.Context) (map[string]float64, error)
}

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository constructs a fee repository backed by GORM.
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Create(ctx context.Context, fee *models.Fee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *feeRepository) CreateBatch(ctx context.Context, fees []models.Fee) error {
	if len(fees) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&fees).Error
}

func (r *feeRepository) GetByID(ctx context.Context, id string) (models.Fee, error) {
	var fee models.Fee
	if err := r.db.WithContext(ctx).First(&fee, "id = ?", id).Error; err != nil {
		return models.Fee{}, err
	}

	return fee, nil
}

func (r *feeRepository) Update(ctx context.Context, fee *models.Fee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *feeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Fee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *feeRepository) List(ctx context.Context) ([]models.Fee, error) {
	var fees []models.Fee
	if err := r.db.WithContext(ctx).Order("due_date DESC").Find(&fees).Error; err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *feeRepository) TotalsByStatus(ctx context.Context) (map[string]float64, error) {
	var rows []struct {
		Status string
		Total  float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Fee{}).
		Select("status, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Status] = row.Total
	}

	return totals, nil
}

func (r *feeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	var fees []models.Fee
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("due_date DESC").
		Find(&fees).Error; err != nil {
		return nil, err
	}

	return fees, nil
}
