package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// CreateTestimonialRequest captures the payload for adding a testimonial.
type CreateTestimonialRequest struct {
	StudentName string `json:"student_name" validate:"required,min=1,max=255"`
	Content     string `json:"content" validate:"required,min=1,max=5000"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	IsFeatured  bool   `json:"is_featured"`
}

// UpdateTestimonialRequest captures partial updates for a testimonial.
type UpdateTestimonialRequest struct {
	StudentName *string `json:"student_name" validate:"omitempty,min=1,max=255"`
	Content     *string `json:"content" validate:"omitempty,min=1,max=5000"`
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	IsFeatured  *bool   `json:"is_featured"`
}

// TestimonialResponse serializes a testimonial.
type TestimonialResponse struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTestimonialResponse converts a testimonial model into a DTO.
func NewTestimonialResponse(testimonial models.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:          testimonial.ID,
		StudentName: testimonial.StudentName,
		Content:     testimonial.Content,
		Rating:      testimonial.Rating,
		IsFeatured:  testimonial.IsFeatured,
		CreatedAt:   testimonial.CreatedAt,
	}
}

// NewTestimonialResponseSlice converts a slice of testimonial models.
func NewTestimonialResponseSlice(testimonials []models.Testimonial) []TestimonialResponse {
	responses := make([]TestimonialResponse, 0, len(testimonials))
	for _, testimonial := range testimonials {
		responses = append(responses, NewTestimonialResponse(testimonial))
	}

	return responses
}
