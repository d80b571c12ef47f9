package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateFeeRequest records one installment for a student.
type CreateFeeRequest struct {
	StudentID string    `json:"student_id" validate:"required,uuid4"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	Status    string    `json:"status" validate:"omitempty,oneof=pending paid overdue"`
}

// CreateBatchFeesRequest records the same installment for every student in
// a batch.
type CreateBatchFeesRequest struct {
	BatchID string    `json:"batch_id" validate:"required,uuid4"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
	DueDate time.Time `json:"due_date" validate:"required"`
}

// UpdateFeeRequest captures partial updates for a fee. Setting status to
// paid stamps paid_date; moving it away from paid clears it.
type UpdateFeeRequest struct {
	Amount  *float64   `json:"amount" validate:"omitempty,gt=0"`
	DueDate *time.Time `json:"due_date"`
	Status  *string    `json:"status" validate:"omitempty,oneof=pending paid overdue"`
}

// FeeResponse serializes a fee installment.
type FeeResponse struct {
	ID        string     `json:"id"`
	StudentID string     `json:"student_id"`
	Amount    float64    `json:"amount"`
	DueDate   time.Time  `json:"due_date"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// FeeTotalsResponse aggregates fee amounts by status.
type FeeTotalsResponse struct {
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	TotalOverdue float64 `json:"total_overdue"`
}

// NewFeeResponse converts a fee model into a DTO.
func NewFeeResponse(fee models.Fee) FeeResponse {
	return FeeResponse{
		ID:        fee.ID,
		StudentID: fee.StudentID,
		Amount:    fee.Amount,
		DueDate:   fee.DueDate,
		PaidDate:  fee.PaidDate,
		Status:    fee.Status,
		CreatedAt: fee.CreatedAt,
	}
}

// NewFeeResponseSlice converts a slice of fee models.
func NewFeeResponseSlice(fees []models.Fee) []FeeResponse {
	responses := make([]FeeResponse, 0, len(fees))
	for _, fee := range fees {
		responses = append(responses, NewFeeResponse(fee))
	}

	return responses
}
