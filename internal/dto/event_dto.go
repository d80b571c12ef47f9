package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateEventRequest captures the payload for creating an event.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=10000"`
	EventDate   time.Time `json:"event_date" validate:"required"`
}

// UpdateEventRequest captures partial updates for an event.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	EventDate   *time.Time `json:"event_date"`
}

// EventResponse serializes an event.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventDate   time.Time `json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRegistrationResponse serializes a student's event registration.
type EventRegistrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	StudentID    string    `json:"student_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewEventResponse converts an event model into a DTO.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		CreatedAt:   event.CreatedAt,
	}
}

// NewEventResponseSlice converts a slice of event models.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}

	return responses
}

// NewEventRegistrationResponse converts a registration model into a DTO.
func NewEventRegistrationResponse(registration models.EventRegistration) EventRegistrationResponse {
	return EventRegistrationResponse{
		ID:           registration.ID,
		EventID:      registration.EventID,
		StudentID:    registration.StudentID,
		RegisteredAt: registration.RegisteredAt,
	}
}

// NewEventRegistrationResponseSlice converts a slice of registration models.
func NewEventRegistrationResponseSlice(registrations []models.EventRegistration) []EventRegistrationResponse {
	responses := make([]EventRegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, NewEventRegistrationResponse(registration))
	}

	return responses
}
