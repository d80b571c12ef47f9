package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is marketing copy shown on the public site. StudentName is
// free text and intentionally not linked to a Student row.
type Testimonial struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentName string    `gorm:"size:255;not null" json:"student_name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Rating      int       `gorm:"not null;default:5" json:"rating"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Testimonial) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
