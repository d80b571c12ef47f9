package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Test is a scheduled examination for a batch.
type Test struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID   string    `gorm:"type:uuid;not null;index" json:"batch_id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	TestDate  time.Time `gorm:"not null" json:"test_date"`
	MaxMarks  float64   `gorm:"not null" json:"max_marks"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Test) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TestMark is one student's result for a test. Marks for a test are saved
// with replace-all semantics, mirroring attendance. MarksObtained is nil
// when the student was absent.
type TestMark struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	TestID         string     `gorm:"type:uuid;not null;index" json:"test_id"`
	StudentID      string     `gorm:"type:uuid;not null;index" json:"student_id"`
	MarksObtained  *float64   `json:"marks_obtained,omitempty"`
	RetestEligible bool       `gorm:"not null;default:false" json:"retest_eligible"`
	RetestDate     *time.Time `json:"retest_date,omitempty"`
	Test           *Test      `gorm:"foreignKey:TestID" json:"test,omitempty"`
}

func (m *TestMark) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
