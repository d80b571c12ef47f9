package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tilinsmath/tuition-api/internal/dto"
)

func newEventFixture(t *testing.T) (EventService, *memoryEventRepo, *recordingPublisher) {
	t.Helper()
	repo := newMemoryEventRepo()
	publisher := &recordingPublisher{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEventService(repo, validate, publisher, zerolog.Nop()), repo, publisher
}

func TestRegisterForEventOnce(t *testing.T) {
	svc, _, publisher := newEventFixture(t)

	event, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Title:     "Science fair",
		EventDate: time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	studentID := uuid.NewString()
	registration, err := svc.Register(context.Background(), event.ID, studentID)
	require.NoError(t, err)
	require.Equal(t, event.ID, registration.EventID)
	require.Equal(t, studentID, registration.StudentID)

	_, err = svc.Register(context.Background(), event.ID, studentID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	registrations, err := svc.ListRegistrationsByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	require.NotEmpty(t, publisher.events)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	_, err := svc.Register(context.Background(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteUnknownEvent(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	require.ErrorIs(t, svc.Delete(context.Background(), uuid.NewString()), ErrEventNotFound)
}
