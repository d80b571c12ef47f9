package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Attendance{},
		&models.Fee{},
		&models.Task{},
		&models.TaskSubmission{},
		&models.Event{},
		&models.EventRegistration{},
	))
	return db
}

func TestReplaceForClassSwapsRoster(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	classID := uuid.NewString()
	otherClassID := uuid.NewString()
	first := uuid.NewString()
	second := uuid.NewString()

	require.NoError(t, repo.ReplaceForClass(context.Background(), classID, []models.Attendance{
		{StudentID: first, IsPresent: true},
		{StudentID: second, IsPresent: false},
	}))
	require.NoError(t, repo.ReplaceForClass(context.Background(), otherClassID, []models.Attendance{
		{StudentID: first, IsPresent: true},
	}))

	records, err := repo.ListByClass(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// A re-save replaces the previous set without touching other classes.
	require.NoError(t, repo.ReplaceForClass(context.Background(), classID, []models.Attendance{
		{StudentID: first, IsPresent: false},
	}))

	records, err = repo.ListByClass(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, first, records[0].StudentID)
	require.False(t, records[0].IsPresent)

	other, err := repo.ListByClass(context.Background(), otherClassID)
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestReplaceForClassEmptyClearsRoster(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	classID := uuid.NewString()
	require.NoError(t, repo.ReplaceForClass(context.Background(), classID, []models.Attendance{
		{StudentID: uuid.NewString(), IsPresent: true},
	}))
	require.NoError(t, repo.ReplaceForClass(context.Background(), classID, nil))

	records, err := repo.ListByClass(context.Background(), classID)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestListByStudentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	studentID := uuid.NewString()
	older := models.Attendance{ClassID: uuid.NewString(), StudentID: studentID, MarkedAt: time.Now().Add(-2 * time.Hour)}
	newer := models.Attendance{ClassID: uuid.NewString(), StudentID: studentID, MarkedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	records, err := repo.ListByStudent(context.Background(), studentID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, newer.ID, records[0].ID, "expected newest record first")
}
