package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassNote is a study material PDF attached to a class.
type ClassNote struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID    string    `gorm:"type:uuid;not null;index" json:"class_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	FileURL    string    `gorm:"size:1024;not null" json:"file_url"`
	UploadedBy *string   `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (n *ClassNote) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.UploadedAt.IsZero() {
		n.UploadedAt = time.Now().UTC()
	}
	return nil
}
