package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateTestRequest schedules a test for a batch.
type CreateTestRequest struct {
	BatchID  string    `json:"batch_id" validate:"required,uuid4"`
	Subject  string    `json:"subject" validate:"required,min=1,max=255"`
	TestDate time.Time `json:"test_date" validate:"required"`
	MaxMarks float64   `json:"max_marks" validate:"required,gt=0"`
}

// UpdateTestRequest captures partial updates for a test.
type UpdateTestRequest struct {
	Subject  *string    `json:"subject" validate:"omitempty,min=1,max=255"`
	TestDate *time.Time `json:"test_date"`
	MaxMarks *float64   `json:"max_marks" validate:"omitempty,gt=0"`
}

// TestResponse serializes a scheduled test.
type TestResponse struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id"`
	Subject   string    `json:"subject"`
	TestDate  time.Time `json:"test_date"`
	MaxMarks  float64   `json:"max_marks"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkEntry is one student's result inside a save-marks request. A nil
// MarksObtained records an absence.
type MarkEntry struct {
	StudentID      string     `json:"student_id" validate:"required,uuid4"`
	MarksObtained  *float64   `json:"marks_obtained" validate:"omitempty,gte=0"`
	RetestEligible bool       `json:"retest_eligible"`
	RetestDate     *time.Time `json:"retest_date"`
}

// SaveMarksRequest replaces the full mark set of a test.
type SaveMarksRequest struct {
	Entries []MarkEntry `json:"entries" validate:"dive"`
}

// ScheduleRetestRequest sets the retest date on a mark row.
type ScheduleRetestRequest struct {
	RetestDate time.Time `json:"retest_date" validate:"required"`
}

// TestMarkResponse serializes one test result. Percentage and Grade are
// derived; both are omitted for absences.
type TestMarkResponse struct {
	ID             string        `json:"id"`
	TestID         string        `json:"test_id"`
	StudentID      string        `json:"student_id"`
	MarksObtained  *float64      `json:"marks_obtained,omitempty"`
	Percentage     *float64      `json:"percentage,omitempty"`
	Grade          string        `json:"grade,omitempty"`
	RetestEligible bool          `json:"retest_eligible"`
	RetestDate     *time.Time    `json:"retest_date,omitempty"`
	Test           *TestResponse `json:"test,omitempty"`
}

// NewTestResponse converts a test model into a DTO.
func NewTestResponse(test models.Test) TestResponse {
	return TestResponse{
		ID:        test.ID,
		BatchID:   test.BatchID,
		Subject:   test.Subject,
		TestDate:  test.TestDate,
		MaxMarks:  test.MaxMarks,
		CreatedAt: test.CreatedAt,
	}
}

// NewTestResponseSlice converts a slice of test models.
func NewTestResponseSlice(tests []models.Test) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test))
	}

	return responses
}

// NewTestMarkResponse converts a mark model into a DTO. maxMarks drives the
// derived percentage and grade; pass 0 when the test is not loaded.
func NewTestMarkResponse(mark models.TestMark, maxMarks float64) TestMarkResponse {
	response := TestMarkResponse{
		ID:             mark.ID,
		TestID:         mark.TestID,
		StudentID:      mark.StudentID,
		MarksObtained:  mark.MarksObtained,
		RetestEligible: mark.RetestEligible,
		RetestDate:     mark.RetestDate,
	}

	if mark.Test != nil {
		test := NewTestResponse(*mark.Test)
		response.Test = &test
		if maxMarks == 0 {
			maxMarks = mark.Test.MaxMarks
		}
	}

	if mark.MarksObtained != nil && maxMarks > 0 {
		percentage := *mark.MarksObtained / maxMarks * 100
		response.Percentage = &percentage
		response.Grade = GradeFor(percentage)
	}

	return response
}

// NewTestMarkResponseSlice converts a slice of mark models.
func NewTestMarkResponseSlice(marks []models.TestMark, maxMarks float64) []TestMarkResponse {
	responses := make([]TestMarkResponse, 0, len(marks))
	for _, mark := range marks {
		responses = append(responses, NewTestMarkResponse(mark, maxMarks))
	}

	return responses
}

// GradeFor maps a percentage to its letter grade. Band edges are inclusive
// at the lower bound.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B+"
	case percentage >= 60:
		return "B"
	case percentage >= 50:
		return "C"
	default:
		return "F"
	}
}
