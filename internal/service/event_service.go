package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrEventNotFound indicates the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrAlreadyRegistered indicates the student already holds a registration
// for the event.
var ErrAlreadyRegistered = errors.New("already registered for event")

// EventService exposes event management and registration use cases.
type EventService interface {
	Create(ctx context.Context, payload dto.CreateEventRequest) (dto.EventResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateEventRequest) (dto.EventResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.EventResponse, error)
	Register(ctx context.Context, eventID, studentID string) (dto.EventRegistrationResponse, error)
	ListRegistrationsByStudent(ctx context.Context, studentID string) ([]dto.EventRegistrationResponse, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string) ([]dto.EventRegistrationResponse, error)
}

type eventService struct {
	events    repository.EventRepository
	validator *validator.Validate
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService builds a new event service.
func NewEventService(
	events repository.EventRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) EventService {
	return &eventService{
		events:    events,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "event_service").Logger(),
		now:       time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, payload dto.CreateEventRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		Title:       payload.Title,
		Description: payload.Description,
		EventDate:   payload.EventDate,
	}
	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.publisher.Publish(ctx, "events", realtime.ActionInsert, event.ID)

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Update(ctx context.Context, id string, payload dto.UpdateEventRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}

		return dto.EventResponse{}, err
	}

	if payload.Title != nil {
		event.Title = *payload.Title
	}
	if payload.Description != nil {
		event.Description = *payload.Description
	}
	if payload.EventDate != nil {
		event.EventDate = *payload.EventDate
	}

	if err := s.events.Update(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.publisher.Publish(ctx, "events", realtime.ActionUpdate, event.ID)

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "events", realtime.ActionDelete, id)

	return nil
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Register(ctx context.Context, eventID, studentID string) (dto.EventRegistrationResponse, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventRegistrationResponse{}, ErrEventNotFound
		}

		return dto.EventRegistrationResponse{}, err
	}

	registration := models.EventRegistration{
		EventID:   eventID,
		StudentID: studentID,
	}
	if err := s.events.Register(ctx, &registration); err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			return dto.EventRegistrationResponse{}, ErrAlreadyRegistered
		}

		return dto.EventRegistrationResponse{}, err
	}

	s.publisher.Publish(ctx, "event_registrations", realtime.ActionInsert, registration.ID)
	s.logger.Info().Str("event_id", eventID).Str("student_id", studentID).Msg("event registration created")

	return dto.NewEventRegistrationResponse(registration), nil
}

func (s *eventService) ListRegistrationsByStudent(ctx context.Context, studentID string) ([]dto.EventRegistrationResponse, error) {
	registrations, err := s.events.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEventRegistrationResponseSlice(registrations), nil
}

func (s *eventService) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]dto.EventRegistrationResponse, error) {
	registrations, err := s.events.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return dto.NewEventRegistrationResponseSlice(registrations), nil
}
