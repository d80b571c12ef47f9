package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// The flow tests run the real services against SQLite-backed repositories
// to exercise a whole admission cycle rather than a single layer.

func openFlowDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.UserRole{},
		&models.Batch{},
		&models.Student{},
		&models.Class{},
		&models.Attendance{},
	))
	return db
}

func TestAdmissionToAttendanceFlow(t *testing.T) {
	db := openFlowDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	publisher := &recordingPublisher{}
	logger := zerolog.Nop()

	profileRepo := repository.NewProfileRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	batchSvc := NewBatchService(batchRepo, validate, publisher, logger)
	studentSvc := NewStudentService(studentRepo, profileRepo, roleRepo, batchRepo, validate, publisher, logger)
	classSvc := NewClassService(classRepo, batchRepo, validate, publisher, logger)
	attendanceSvc := NewAttendanceService(attendanceRepo, classRepo, studentRepo, validate, publisher, logger)

	ctx := context.Background()

	batch, err := batchSvc.Create(ctx, dto.CreateBatchRequest{
		Name:  "Grade 10 Morning",
		Board: models.BoardCBSE,
		Grade: "10",
		Mode:  models.ModeOnline,
	})
	require.NoError(t, err)

	student, err := studentSvc.Enroll(ctx, dto.CreateStudentRequest{
		FullName: "Anita Rao",
		Email:    "anita.rao@example.com",
		Password: "changeme123",
		Board:    models.BoardCBSE,
		Grade:    "10",
		BatchID:  &batch.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, student.BatchID)
	require.Equal(t, batch.ID, *student.BatchID)

	class, err := classSvc.Create(ctx, dto.CreateClassRequest{
		BatchID: batch.ID,
		Subject: "Mathematics",
		Date:    time.Now().UTC(),
		Time:    "17:00",
	})
	require.NoError(t, err)

	saved, err := attendanceSvc.Save(ctx, class.ID, dto.SaveAttendanceRequest{Entries: []dto.AttendanceEntry{
		{StudentID: student.ID, IsPresent: true},
	}})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	summary, err := attendanceSvc.Summary(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalClasses)
	require.Equal(t, 1, summary.TotalPresent)
	require.InDelta(t, 100.0, summary.OverallPercent, 0.01)
}
