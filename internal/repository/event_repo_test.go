package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

func TestRegisterRejectsDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)

	event := models.Event{Title: "Science fair", EventDate: time.Now().AddDate(0, 0, 10)}
	require.NoError(t, repo.Create(context.Background(), &event))

	studentID := uuid.NewString()
	require.NoError(t, repo.Register(context.Background(), &models.EventRegistration{
		EventID:   event.ID,
		StudentID: studentID,
	}))

	err := repo.Register(context.Background(), &models.EventRegistration{
		EventID:   event.ID,
		StudentID: studentID,
	})
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	// A different student still registers fine.
	require.NoError(t, repo.Register(context.Background(), &models.EventRegistration{
		EventID:   event.ID,
		StudentID: uuid.NewString(),
	}))

	registrations, err := repo.ListRegistrationsByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, registrations, 2)
}

func TestDeleteEventRemovesRegistrations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)

	event := models.Event{Title: "Annual day", EventDate: time.Now().AddDate(0, 1, 0)}
	require.NoError(t, repo.Create(context.Background(), &event))
	require.NoError(t, repo.Register(context.Background(), &models.EventRegistration{
		EventID:   event.ID,
		StudentID: uuid.NewString(),
	}))

	require.NoError(t, repo.Delete(context.Background(), event.ID))

	var count int64
	require.NoError(t, db.Model(&models.EventRegistration{}).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, repo.Delete(context.Background(), event.ID), gorm.ErrRecordNotFound)
}
