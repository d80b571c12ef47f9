package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Curriculum boards offered by the center.
const (
	BoardState     = "state_board"
	BoardCBSE      = "cbse"
	BoardICSE      = "icse"
	BoardCambridge = "cambridge"
)

// Class delivery modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Batch is a named cohort of students sharing board, grade and mode. It is
// the unit of scheduling: classes, tasks and tests all hang off a batch.
type Batch struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Board     string    `gorm:"size:32;not null" json:"board"`
	Grade     string    `gorm:"size:16;not null" json:"grade"`
	Mode      string    `gorm:"size:16;not null" json:"mode"`
	TeacherID *string   `gorm:"type:uuid" json:"teacher_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Batch) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Student shares its primary key with the owning Profile (one-to-one). Board
// and grade are stored per student and may differ from the batch's.
type Student struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	Board         string     `gorm:"size:32;not null" json:"board"`
	Grade         string     `gorm:"size:16;not null" json:"grade"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	BatchID       *string    `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	ParentID      *string    `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Profile       *Profile   `gorm:"foreignKey:ID;references:ID" json:"profile,omitempty"`
}

// Class is a single scheduled session of a batch. Attendance and notes
// attach to a class.
type Class struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID         string    `gorm:"type:uuid;not null;index" json:"batch_id"`
	Subject         string    `gorm:"size:255;not null" json:"subject"`
	Date            time.Time `gorm:"not null" json:"date"`
	Time            string    `gorm:"size:16;not null" json:"time"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	MeetLink        string    `gorm:"size:512" json:"meet_link,omitempty"`
	IsCompleted     bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt       time.Time `json:"created_at"`
}

func (c *Class) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
