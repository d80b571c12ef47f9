package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository interface {
	// ReplaceForClass swaps the full attendance set of a class for the
	// submitted rows. Delete and insert run in one transaction so a failure
	// never leaves the class with a partial roster.
	ReplaceForClass(ctx context.Context, classID string, rows []models.Attendance) error
	ListByClass(ctx context.Context, classID string) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs an attendance repository backed by GORM.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ReplaceForClass(ctx context.Context, classID string, rows []models.Attendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", classID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		for i := range rows {
			rows[i].ClassID = classID
		}

		return tx.Create(&rows).Error
	})
}

func (r *attendanceRepository) ListByClass(ctx context.Context, classID string) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("marked_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
