package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateBatchRequest captures the payload for creating a batch.
type CreateBatchRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=255"`
	Board     string  `json:"board" validate:"required,oneof=state_board cbse icse cambridge"`
	Grade     string  `json:"grade" validate:"required,min=1,max=16"`
	Mode      string  `json:"mode" validate:"required,oneof=online offline"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,uuid4"`
}

// UpdateBatchRequest captures partial updates for a batch.
type UpdateBatchRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Board     *string `json:"board" validate:"omitempty,oneof=state_board cbse icse cambridge"`
	Grade     *string `json:"grade" validate:"omitempty,min=1,max=16"`
	Mode      *string `json:"mode" validate:"omitempty,oneof=online offline"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,uuid4"`
}

// BatchResponse serializes a batch.
type BatchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Board     string    `json:"board"`
	Grade     string    `json:"grade"`
	Mode      string    `json:"mode"`
	TeacherID *string   `json:"teacher_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBatchResponse converts a batch model into a DTO.
func NewBatchResponse(batch models.Batch) BatchResponse {
	return BatchResponse{
		ID:        batch.ID,
		Name:      batch.Name,
		Board:     batch.Board,
		Grade:     batch.Grade,
		Mode:      batch.Mode,
		TeacherID: batch.TeacherID,
		CreatedAt: batch.CreatedAt,
	}
}

// NewBatchResponseSlice converts a slice of batch models.
func NewBatchResponseSlice(batches []models.Batch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, NewBatchResponse(batch))
	}

	return responses
}
