package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateDemoBookingRequest is the public demo-class booking payload.
type CreateDemoBookingRequest struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=255"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=7,max=32"`
	Board         string `json:"board" validate:"required,oneof=state_board cbse icse cambridge"`
	PreferredMode string `json:"preferred_mode" validate:"required,oneof=online offline"`
}

// DemoBookingResponse serializes a demo booking.
type DemoBookingResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Board         string    `json:"board"`
	PreferredMode string    `json:"preferred_mode"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewDemoBookingResponse converts a demo booking model into a DTO.
func NewDemoBookingResponse(booking models.DemoBooking) DemoBookingResponse {
	return DemoBookingResponse{
		ID:            booking.ID,
		FullName:      booking.FullName,
		Email:         booking.Email,
		Phone:         booking.Phone,
		Board:         booking.Board,
		PreferredMode: booking.PreferredMode,
		CreatedAt:     booking.CreatedAt,
	}
}

// NewDemoBookingResponseSlice converts a slice of demo booking models.
func NewDemoBookingResponseSlice(bookings []models.DemoBooking) []DemoBookingResponse {
	responses := make([]DemoBookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, NewDemoBookingResponse(booking))
	}

	return responses
}
