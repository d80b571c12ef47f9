package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// NoteResponse serializes an uploaded class note.
type NoteResponse struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	Title      string    `json:"title"`
	FileURL    string    `json:"file_url"`
	UploadedBy *string   `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewNoteResponse converts a class note model into a DTO.
func NewNoteResponse(note models.ClassNote) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		ClassID:    note.ClassID,
		Title:      note.Title,
		FileURL:    note.FileURL,
		UploadedBy: note.UploadedBy,
		UploadedAt: note.UploadedAt,
	}
}

// NewNoteResponseSlice converts a slice of class note models.
func NewNoteResponseSlice(notes []models.ClassNote) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}

	return responses
}
