package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// TestRepository handles persistence for tests and their marks.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id string) (models.Test, error)
	Update(ctx context.Context, test *models.Test) error
	// Delete removes the test and all of its marks.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Test, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Test, error)

	// ReplaceMarks swaps the full mark set of a test for the submitted rows
	// inside one transaction, mirroring attendance saves.
	ReplaceMarks(ctx context.Context, testID string, marks []models.TestMark) error
	ListMarksByTest(ctx context.Context, testID string) ([]models.TestMark, error)
	ListMarksByStudent(ctx context.Context, studentID string) ([]models.TestMark, error)
	GetMark(ctx context.Context, id string) (models.TestMark, error)
	UpdateMark(ctx context.Context, mark *models.TestMark) error
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository constructs a test repository backed by GORM.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) GetByID(ctx context.Context, id string) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return models.Test{}, err
	}

	return test, nil
}

func (r *testRepository) Update(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *testRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&models.TestMark{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Test{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *testRepository) List(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).Order("test_date DESC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("test_date DESC").
		Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) ReplaceMarks(ctx context.Context, testID string, marks []models.TestMark) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", testID).Delete(&models.TestMark{}).Error; err != nil {
			return err
		}

		if len(marks) == 0 {
			return nil
		}

		for i := range marks {
			marks[i].TestID = testID
		}

		return tx.Create(&marks).Error
	})
}

func (r *testRepository) ListMarksByTest(ctx context.Context, testID string) ([]models.TestMark, error) {
	var marks []models.TestMark
	if err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *testRepository) ListMarksByStudent(ctx context.Context, studentID string) ([]models.TestMark, error) {
	var marks []models.TestMark
	if err := r.db.WithContext(ctx).
		Preload("Test").
		Where("student_id = ?", studentID).
		Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *testRepository) GetMark(ctx context.Context, id string) (models.TestMark, error) {
	var mark models.TestMark
	if err := r.db.WithContext(ctx).Preload("Test").First(&mark, "id = ?", id).Error; err != nil {
		return models.TestMark{}, err
	}

	return mark, nil
}

func (r *testRepository) UpdateMark(ctx context.Context, mark *models.TestMark) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(mark).Error
}
