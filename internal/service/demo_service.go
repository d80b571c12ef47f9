package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// DemoService exposes public demo-class booking use cases.
type DemoService interface {
	// Book records a public demo request and alerts the admins.
	Book(ctx context.Context, payload dto.CreateDemoBookingRequest) (dto.DemoBookingResponse, error)
	List(ctx context.Context) ([]dto.DemoBookingResponse, error)
}

type demoService struct {
	bookings  repository.DemoBookingRepository
	notifier  RoleNotifier
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDemoService builds a new demo booking service.
func NewDemoService(
	bookings repository.DemoBookingRepository,
	notifier RoleNotifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) DemoService {
	return &demoService{
		bookings:  bookings,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "demo_service").Logger(),
	}
}

func (s *demoService) Book(ctx context.Context, payload dto.CreateDemoBookingRequest) (dto.DemoBookingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DemoBookingResponse{}, err
	}

	booking := models.DemoBooking{
		FullName:      strings.TrimSpace(payload.FullName),
		Email:         strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:         strings.TrimSpace(payload.Phone),
		Board:         payload.Board,
		PreferredMode: payload.PreferredMode,
	}
	if err := s.bookings.Create(ctx, &booking); err != nil {
		return dto.DemoBookingResponse{}, err
	}

	// Booking is already stored; a failed alert only costs the admins a
	// heads-up.
	if _, err := s.notifier.NotifyRole(ctx, models.RoleAdmin, "New demo booking",
		fmt.Sprintf("%s requested a %s demo class.", booking.FullName, booking.PreferredMode)); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to notify admins of demo booking")
	}

	s.logger.Info().Str("booking_id", booking.ID).Msg("demo booking recorded")

	return dto.NewDemoBookingResponse(booking), nil
}

func (s *demoService) List(ctx context.Context) ([]dto.DemoBookingResponse, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewDemoBookingResponseSlice(bookings), nil
}
