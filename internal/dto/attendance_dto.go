package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// AttendanceEntry is one student's presence flag inside a save request.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	IsPresent bool   `json:"is_present"`
}

// SaveAttendanceRequest replaces the full attendance set of a class. An
// empty entry list clears the class's attendance.
type SaveAttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" validate:"dive"`
}

// AttendanceResponse serializes one attendance record.
type AttendanceResponse struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	StudentID string    `json:"student_id"`
	IsPresent bool      `json:"is_present"`
	MarkedAt  time.Time `json:"marked_at"`
}

// AttendanceBucket is one aggregated period in an attendance summary.
type AttendanceBucket struct {
	Label   string  `json:"label"`
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Percent float64 `json:"percent"`
}

// AttendanceSummaryResponse aggregates one student's attendance history.
// Percentages are 0 when the underlying period has no records.
type AttendanceSummaryResponse struct {
	StudentID      string               `json:"student_id"`
	OverallPercent float64              `json:"overall_percent"`
	TotalClasses   int                  `json:"total_classes"`
	TotalPresent   int                  `json:"total_present"`
	Daily          []AttendanceResponse `json:"daily"`
	Weekly         []AttendanceBucket   `json:"weekly"`
	Monthly        []AttendanceBucket   `json:"monthly"`
}

// NewAttendanceResponse converts an attendance model into a DTO.
func NewAttendanceResponse(attendance models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        attendance.ID,
		ClassID:   attendance.ClassID,
		StudentID: attendance.StudentID,
		IsPresent: attendance.IsPresent,
		MarkedAt:  attendance.MarkedAt,
	}
}

// NewAttendanceResponseSlice converts a slice of attendance models.
func NewAttendanceResponseSlice(records []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}

	return responses
}
