package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// NoteRepository handles persistence for class notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.ClassNote) error
	GetByID(ctx context.Context, id string) (models.ClassNote, error)
	Delete(ctx context.Context, id string) error
	ListByClass(ctx context.Context, classID string) ([]models.ClassNote, error)
	ListByClasses(ctx context.Context, classIDs []string) ([]models.ClassNote, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs a note repository backed by GORM.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.ClassNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id string) (models.ClassNote, error) {
	var note models.ClassNote
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		return models.ClassNote{}, err
	}

	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ClassNote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *noteRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassNote, error) {
	var notes []models.ClassNote
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("uploaded_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) ListByClasses(ctx context.Context, classIDs []string) ([]models.ClassNote, error) {
	if len(classIDs) == 0 {
		return []models.ClassNote{}, nil
	}

	var notes []models.ClassNote
	if err := r.db.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Order("uploaded_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	return notes, nil
}
