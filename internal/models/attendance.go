package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance records a student's presence in a class. At most one row per
// (class_id, student_id); the set is maintained by replace-all saves.
type Attendance struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID   string    `gorm:"type:uuid;not null;index" json:"class_id"`
	StudentID string    `gorm:"type:uuid;not null;index" json:"student_id"`
	IsPresent bool      `gorm:"not null;default:false" json:"is_present"`
	MarkedAt  time.Time `json:"marked_at"`
}

func (a *Attendance) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.MarkedAt.IsZero() {
		a.MarkedAt = time.Now().UTC()
	}
	return nil
}
