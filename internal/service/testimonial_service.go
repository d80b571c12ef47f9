package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrTestimonialNotFound indicates the requested testimonial does not exist.
var ErrTestimonialNotFound = errors.New("testimonial not found")

// TestimonialService exposes marketing testimonial use cases. The featured
// listing is public; everything else is admin-only.
type TestimonialService interface {
	Create(ctx context.Context, payload dto.CreateTestimonialRequest) (dto.TestimonialResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateTestimonialRequest) (dto.TestimonialResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.TestimonialResponse, error)
	ListFeatured(ctx context.Context) ([]dto.TestimonialResponse, error)
}

type testimonialService struct {
	repo      repository.TestimonialRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewTestimonialService builds a new testimonial service.
func NewTestimonialService(
	repo repository.TestimonialRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) TestimonialService {
	return &testimonialService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "testimonial_service").Logger(),
	}
}

func (s *testimonialService) Create(ctx context.Context, payload dto.CreateTestimonialRequest) (dto.TestimonialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestimonialResponse{}, err
	}

	testimonial := models.Testimonial{
		StudentName: payload.StudentName,
		Content:     s.sanitizer.Sanitize(payload.Content),
		Rating:      payload.Rating,
		IsFeatured:  payload.IsFeatured,
	}
	if err := s.repo.Create(ctx, &testimonial); err != nil {
		return dto.TestimonialResponse{}, err
	}

	return dto.NewTestimonialResponse(testimonial), nil
}

func (s *testimonialService) Update(ctx context.Context, id string, payload dto.UpdateTestimonialRequest) (dto.TestimonialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestimonialResponse{}, err
	}

	testimonial, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestimonialResponse{}, ErrTestimonialNotFound
		}

		return dto.TestimonialResponse{}, err
	}

	if payload.StudentName != nil {
		testimonial.StudentName = *payload.StudentName
	}
	if payload.Content != nil {
		testimonial.Content = s.sanitizer.Sanitize(*payload.Content)
	}
	if payload.Rating != nil {
		testimonial.Rating = *payload.Rating
	}
	if payload.IsFeatured != nil {
		testimonial.IsFeatured = *payload.IsFeatured
	}

	if err := s.repo.Update(ctx, &testimonial); err != nil {
		return dto.TestimonialResponse{}, err
	}

	return dto.NewTestimonialResponse(testimonial), nil
}

func (s *testimonialService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestimonialNotFound
		}

		return err
	}

	return nil
}

func (s *testimonialService) List(ctx context.Context) ([]dto.TestimonialResponse, error) {
	testimonials, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTestimonialResponseSlice(testimonials), nil
}

func (s *testimonialService) ListFeatured(ctx context.Context) ([]dto.TestimonialResponse, error) {
	testimonials, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTestimonialResponseSlice(testimonials), nil
}
