package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a center-wide happening students can register for.
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventRegistration links a student to an event. The unique index rejects
// duplicate registrations at the store level.
type EventRegistration struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_registrations_event_student" json:"event_id"`
	StudentID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_registrations_event_student" json:"student_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (r *EventRegistration) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now().UTC()
	}
	return nil
}
