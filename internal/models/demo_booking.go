package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DemoBooking is a public demo-class request from the marketing site. No
// account or session is created for the requester.
type DemoBooking struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string    `gorm:"size:255;not null" json:"full_name"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	Phone         string    `gorm:"size:32;not null" json:"phone"`
	Board         string    `gorm:"size:32;not null" json:"board"`
	PreferredMode string    `gorm:"size:16;not null" json:"preferred_mode"`
	CreatedAt     time.Time `json:"created_at"`
}

func (d *DemoBooking) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
