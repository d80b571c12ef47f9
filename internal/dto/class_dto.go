package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateClassRequest schedules a class for a batch.
type CreateClassRequest struct {
	BatchID         string    `json:"batch_id" validate:"required,uuid4"`
	Subject         string    `json:"subject" validate:"required,min=1,max=255"`
	Date            time.Time `json:"date" validate:"required"`
	Time            string    `json:"time" validate:"required,max=16"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	MeetLink        string    `json:"meet_link" validate:"omitempty,url,max=512"`
}

// UpdateClassRequest captures partial updates for a class.
type UpdateClassRequest struct {
	Subject         *string    `json:"subject" validate:"omitempty,min=1,max=255"`
	Date            *time.Time `json:"date"`
	Time            *string    `json:"time" validate:"omitempty,max=16"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	MeetLink        *string    `json:"meet_link" validate:"omitempty,url,max=512"`
	IsCompleted     *bool      `json:"is_completed"`
}

// ClassResponse serializes a scheduled class.
type ClassResponse struct {
	ID              string    `json:"id"`
	BatchID         string    `json:"batch_id"`
	Subject         string    `json:"subject"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetLink        string    `json:"meet_link,omitempty"`
	IsCompleted     bool      `json:"is_completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewClassResponse converts a class model into a DTO.
func NewClassResponse(class models.Class) ClassResponse {
	return ClassResponse{
		ID:              class.ID,
		BatchID:         class.BatchID,
		Subject:         class.Subject,
		Date:            class.Date,
		Time:            class.Time,
		DurationMinutes: class.DurationMinutes,
		MeetLink:        class.MeetLink,
		IsCompleted:     class.IsCompleted,
		CreatedAt:       class.CreatedAt,
	}
}

// NewClassResponseSlice converts a slice of class models.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}

	return responses
}
