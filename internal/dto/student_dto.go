package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateStudentRequest enrolls a student. It creates the account profile and
// the student record in one step; the profile is granted the student role.
type CreateStudentRequest struct {
	FullName      string     `json:"full_name" validate:"required,min=2,max=255"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone" validate:"omitempty,min=7,max=32"`
	Password      string     `json:"password" validate:"required,min=8,max=72"`
	Board         string     `json:"board" validate:"required,oneof=state_board cbse icse cambridge"`
	Grade         string     `json:"grade" validate:"required,min=1,max=16"`
	AdmissionDate *time.Time `json:"admission_date"`
	BatchID       *string    `json:"batch_id" validate:"omitempty,uuid4"`
	ParentID      *string    `json:"parent_id" validate:"omitempty,uuid4"`
}

// UpdateStudentRequest captures partial updates for a student record.
type UpdateStudentRequest struct {
	Board         *string    `json:"board" validate:"omitempty,oneof=state_board cbse icse cambridge"`
	Grade         *string    `json:"grade" validate:"omitempty,min=1,max=16"`
	AdmissionDate *time.Time `json:"admission_date"`
	BatchID       *string    `json:"batch_id" validate:"omitempty,uuid4"`
	ParentID      *string    `json:"parent_id" validate:"omitempty,uuid4"`
}

// StudentResponse serializes a student with its profile fields flattened in.
type StudentResponse struct {
	ID            string     `json:"id"`
	FullName      string     `json:"full_name,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Board         string     `json:"board"`
	Grade         string     `json:"grade"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	BatchID       *string    `json:"batch_id,omitempty"`
	ParentID      *string    `json:"parent_id,omitempty"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	response := StudentResponse{
		ID:            student.ID,
		Board:         student.Board,
		Grade:         student.Grade,
		AdmissionDate: student.AdmissionDate,
		BatchID:       student.BatchID,
		ParentID:      student.ParentID,
	}

	if student.Profile != nil {
		response.FullName = student.Profile.FullName
		response.Email = student.Profile.Email
		response.Phone = student.Profile.Phone
	}

	return response
}

// NewStudentResponseSlice converts a slice of student models.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
