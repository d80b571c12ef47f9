package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrTestNotFound indicates the requested test does not exist.
var ErrTestNotFound = errors.New("test not found")

// ErrMarkNotFound indicates the requested mark row does not exist.
var ErrMarkNotFound = errors.New("test mark not found")

// ErrMarksExceedMax indicates a submitted score above the test's maximum.
var ErrMarksExceedMax = errors.New("marks exceed test maximum")

// ErrDuplicateMark indicates the save payload lists a student twice.
var ErrDuplicateMark = errors.New("duplicate student in marks payload")

// ErrNotMarkOwner indicates a student acting on another student's mark.
var ErrNotMarkOwner = errors.New("mark belongs to another student")

// RoleNotifier fans a message out to every holder of a role.
type RoleNotifier interface {
	NotifyRole(ctx context.Context, role, title, message string) (int, error)
}

// TestService exposes test scheduling and marking use cases.
type TestService interface {
	Create(ctx context.Context, payload dto.CreateTestRequest) (dto.TestResponse, error)
	Get(ctx context.Context, id string) (dto.TestResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateTestRequest) (dto.TestResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.TestResponse, error)
	ListByBatch(ctx context.Context, batchID string) ([]dto.TestResponse, error)

	// SaveMarks replaces the full mark set of a test.
	SaveMarks(ctx context.Context, testID string, payload dto.SaveMarksRequest) ([]dto.TestMarkResponse, error)
	ListMarksByTest(ctx context.Context, testID string) ([]dto.TestMarkResponse, error)
	ListMarksByStudent(ctx context.Context, studentID string) ([]dto.TestMarkResponse, error)
	// ListChildMarks is ListMarksByStudent restricted to the caller's own
	// children.
	ListChildMarks(ctx context.Context, parentID, studentID string) ([]dto.TestMarkResponse, error)
	// RequestRetest flags a student's own mark for a retest and alerts the
	// admins. Requests against an already-scheduled retest are no-ops.
	RequestRetest(ctx context.Context, markID, studentID string) (dto.TestMarkResponse, error)
	// ScheduleRetest sets the retest date on a flagged mark.
	ScheduleRetest(ctx context.Context, markID string, payload dto.ScheduleRetestRequest) (dto.TestMarkResponse, error)
}

type testService struct {
	tests     repository.TestRepository
	students  repository.StudentRepository
	validator *validator.Validate
	notifier  RoleNotifier
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTestService builds a new test service.
func NewTestService(
	tests repository.TestRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	notifier RoleNotifier,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) TestService {
	return &testService{
		tests:     tests,
		students:  students,
		validator: validate,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With().Str("component", "test_service").Logger(),
		now:       time.Now,
	}
}

func (s *testService) Create(ctx context.Context, payload dto.CreateTestRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test := models.Test{
		BatchID:  payload.BatchID,
		Subject:  payload.Subject,
		TestDate: payload.TestDate,
		MaxMarks: payload.MaxMarks,
	}
	if err := s.tests.Create(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.publisher.Publish(ctx, "tests", realtime.ActionInsert, test.ID)

	return dto.NewTestResponse(test), nil
}

func (s *testService) Get(ctx context.Context, id string) (dto.TestResponse, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResponse{}, ErrTestNotFound
		}

		return dto.TestResponse{}, err
	}

	return dto.NewTestResponse(test), nil
}

func (s *testService) Update(ctx context.Context, id string, payload dto.UpdateTestRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResponse{}, ErrTestNotFound
		}

		return dto.TestResponse{}, err
	}

	if payload.Subject != nil {
		test.Subject = *payload.Subject
	}
	if payload.TestDate != nil {
		test.TestDate = *payload.TestDate
	}
	if payload.MaxMarks != nil {
		test.MaxMarks = *payload.MaxMarks
	}

	if err := s.tests.Update(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.publisher.Publish(ctx, "tests", realtime.ActionUpdate, test.ID)

	return dto.NewTestResponse(test), nil
}

func (s *testService) Delete(ctx context.Context, id string) error {
	if err := s.tests.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "tests", realtime.ActionDelete, id)

	return nil
}

func (s *testService) List(ctx context.Context) ([]dto.TestResponse, error) {
	tests, err := s.tests.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTestResponseSlice(tests), nil
}

func (s *testService) ListByBatch(ctx context.Context, batchID string) ([]dto.TestResponse, error) {
	tests, err := s.tests.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return dto.NewTestResponseSlice(tests), nil
}

func (s *testService) SaveMarks(ctx context.Context, testID string, payload dto.SaveMarksRequest) ([]dto.TestMarkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}

		return nil, err
	}

	seen := make(map[string]struct{}, len(payload.Entries))
	marks := make([]models.TestMark, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		if _, dup := seen[entry.StudentID]; dup {
			return nil, ErrDuplicateMark
		}
		seen[entry.StudentID] = struct{}{}

		if entry.MarksObtained != nil && *entry.MarksObtained > test.MaxMarks {
			return nil, ErrMarksExceedMax
		}

		marks = append(marks, models.TestMark{
			TestID:         testID,
			StudentID:      entry.StudentID,
			MarksObtained:  entry.MarksObtained,
			RetestEligible: entry.RetestEligible,
			RetestDate:     entry.RetestDate,
		})
	}

	if err := s.tests.ReplaceMarks(ctx, testID, marks); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, "test_marks", realtime.ActionUpdate, testID)
	s.logger.Info().Str("test_id", testID).Int("entries", len(marks)).Msg("marks saved")

	return dto.NewTestMarkResponseSlice(marks, test.MaxMarks), nil
}

func (s *testService) ListMarksByTest(ctx context.Context, testID string) ([]dto.TestMarkResponse, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}

		return nil, err
	}

	marks, err := s.tests.ListMarksByTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	return dto.NewTestMarkResponseSlice(marks, test.MaxMarks), nil
}

func (s *testService) ListMarksByStudent(ctx context.Context, studentID string) ([]dto.TestMarkResponse, error) {
	marks, err := s.tests.ListMarksByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	// Marks arrive with their tests preloaded, so max marks come per row.
	return dto.NewTestMarkResponseSlice(marks, 0), nil
}

func (s *testService) ListChildMarks(ctx context.Context, parentID, studentID string) ([]dto.TestMarkResponse, error) {
	if err := verifyChild(ctx, s.students, parentID, studentID); err != nil {
		return nil, err
	}

	return s.ListMarksByStudent(ctx, studentID)
}

func (s *testService) RequestRetest(ctx context.Context, markID, studentID string) (dto.TestMarkResponse, error) {
	mark, err := s.tests.GetMark(ctx, markID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestMarkResponse{}, ErrMarkNotFound
		}

		return dto.TestMarkResponse{}, err
	}

	if mark.StudentID != studentID {
		return dto.TestMarkResponse{}, ErrNotMarkOwner
	}

	// A scheduled retest makes the request a no-op.
	if mark.RetestDate != nil {
		return dto.NewTestMarkResponse(mark, 0), nil
	}

	if !mark.RetestEligible {
		mark.RetestEligible = true
		if err := s.tests.UpdateMark(ctx, &mark); err != nil {
			return dto.TestMarkResponse{}, err
		}
	}

	subject := "a test"
	if mark.Test != nil {
		subject = mark.Test.Subject
	}
	if _, err := s.notifier.NotifyRole(ctx, models.RoleAdmin, "Retest requested",
		fmt.Sprintf("A student has requested a retest for %s.", subject)); err != nil {
		s.logger.Warn().Err(err).Str("mark_id", markID).Msg("failed to notify admins of retest request")
	}

	s.publisher.Publish(ctx, "test_marks", realtime.ActionUpdate, mark.ID)

	return dto.NewTestMarkResponse(mark, 0), nil
}

func (s *testService) ScheduleRetest(ctx context.Context, markID string, payload dto.ScheduleRetestRequest) (dto.TestMarkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestMarkResponse{}, err
	}

	mark, err := s.tests.GetMark(ctx, markID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestMarkResponse{}, ErrMarkNotFound
		}

		return dto.TestMarkResponse{}, err
	}

	retestDate := payload.RetestDate
	mark.RetestEligible = true
	mark.RetestDate = &retestDate
	if err := s.tests.UpdateMark(ctx, &mark); err != nil {
		return dto.TestMarkResponse{}, err
	}

	s.publisher.Publish(ctx, "test_marks", realtime.ActionUpdate, mark.ID)

	return dto.NewTestMarkResponse(mark, 0), nil
}
