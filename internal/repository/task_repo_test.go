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

func TestUpsertSubmissionKeepsRowAndGrade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	task := models.Task{BatchID: uuid.NewString(), Title: "Chapter 4 problems", DueDate: time.Now().AddDate(0, 0, 3)}
	require.NoError(t, repo.Create(context.Background(), &task))

	studentID := uuid.NewString()
	now := time.Now().UTC()

	first := models.TaskSubmission{TaskID: task.ID, StudentID: studentID, IsCompleted: true, SubmittedAt: &now}
	require.NoError(t, repo.UpsertSubmission(context.Background(), &first))

	stored, err := repo.GetSubmission(context.Background(), task.ID, studentID)
	require.NoError(t, err)

	grade := 85.0
	stored.Grade = &grade
	require.NoError(t, repo.UpdateSubmission(context.Background(), &stored))

	// The conflict path updates completion state only; id and grade survive.
	second := models.TaskSubmission{TaskID: task.ID, StudentID: studentID, IsCompleted: false}
	require.NoError(t, repo.UpsertSubmission(context.Background(), &second))

	var count int64
	require.NoError(t, db.Model(&models.TaskSubmission{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	stored, err = repo.GetSubmission(context.Background(), task.ID, studentID)
	require.NoError(t, err)
	require.Equal(t, first.ID, stored.ID)
	require.False(t, stored.IsCompleted)
	require.NotNil(t, stored.Grade)
	require.InDelta(t, 85.0, *stored.Grade, 0.01)
}

func TestDeleteTaskRemovesSubmissions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	task := models.Task{BatchID: uuid.NewString(), Title: "Revision sheet", DueDate: time.Now().AddDate(0, 0, 3)}
	require.NoError(t, repo.Create(context.Background(), &task))
	require.NoError(t, repo.UpsertSubmission(context.Background(), &models.TaskSubmission{
		TaskID:    task.ID,
		StudentID: uuid.NewString(),
	}))

	require.NoError(t, repo.Delete(context.Background(), task.ID))

	var count int64
	require.NoError(t, db.Model(&models.TaskSubmission{}).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, repo.Delete(context.Background(), task.ID), gorm.ErrRecordNotFound)
}
