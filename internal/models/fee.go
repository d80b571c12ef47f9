package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fee status values. Status is set manually by admins and never derived
// from due_date.
const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
)

// Fee is a single payable installment for a student.
type Fee struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID string     `gorm:"type:uuid;not null;index" json:"student_id"`
	Amount    float64    `gorm:"not null" json:"amount"`
	DueDate   time.Time  `gorm:"not null" json:"due_date"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
	Status    string     `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func (f *Fee) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
