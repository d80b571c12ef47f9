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

// ErrDuplicateAttendance indicates the save payload lists a student twice.
var ErrDuplicateAttendance = errors.New("duplicate student in attendance payload")

const (
	summaryDailyLimit   = 7
	summaryWeeklyCount  = 4
	summaryMonthlyCount = 6
)

// AttendanceService exposes attendance marking and history use cases.
type AttendanceService interface {
	// Save replaces the full attendance set of a class. An empty entry
	// list clears it.
	Save(ctx context.Context, classID string, payload dto.SaveAttendanceRequest) ([]dto.AttendanceResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.AttendanceResponse, error)
	// Summary aggregates a student's history into overall, weekly and
	// monthly views. Periods without records report 0 percent.
	Summary(ctx context.Context, studentID string) (dto.AttendanceSummaryResponse, error)
	// ChildSummary is Summary restricted to the caller's own children.
	ChildSummary(ctx context.Context, parentID, studentID string) (dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	classes    repository.ClassRepository
	students   repository.StudentRepository
	validator  *validator.Validate
	publisher  realtime.Publisher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService builds a new attendance service.
func NewAttendanceService(
	attendance repository.AttendanceRepository,
	classes repository.ClassRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		classes:    classes,
		students:   students,
		validator:  validate,
		publisher:  publisher,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

func (s *attendanceService) Save(ctx context.Context, classID string, payload dto.SaveAttendanceRequest) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}

		return nil, err
	}

	seen := make(map[string]struct{}, len(payload.Entries))
	rows := make([]models.Attendance, 0, len(payload.Entries))
	markedAt := s.now().UTC()
	for _, entry := range payload.Entries {
		if _, dup := seen[entry.StudentID]; dup {
			return nil, ErrDuplicateAttendance
		}
		seen[entry.StudentID] = struct{}{}

		rows = append(rows, models.Attendance{
			ClassID:   classID,
			StudentID: entry.StudentID,
			IsPresent: entry.IsPresent,
			MarkedAt:  markedAt,
		})
	}

	if err := s.attendance.ReplaceForClass(ctx, classID, rows); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, "attendance", realtime.ActionUpdate, classID)
	s.logger.Info().Str("class_id", classID).Int("entries", len(rows)).Msg("attendance saved")

	return dto.NewAttendanceResponseSlice(rows), nil
}

func (s *attendanceService) ListByClass(ctx context.Context, classID string) ([]dto.AttendanceResponse, error) {
	records, err := s.attendance.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) Summary(ctx context.Context, studentID string) (dto.AttendanceSummaryResponse, error) {
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	summary := dto.AttendanceSummaryResponse{
		StudentID:    studentID,
		TotalClasses: len(records),
		Daily:        []dto.AttendanceResponse{},
		Weekly:       make([]dto.AttendanceBucket, summaryWeeklyCount),
		Monthly:      make([]dto.AttendanceBucket, summaryMonthlyCount),
	}

	for _, record := range records {
		if record.IsPresent {
			summary.TotalPresent++
		}
	}
	summary.OverallPercent = percent(summary.TotalPresent, summary.TotalClasses)

	// records arrive newest first
	daily := records
	if len(daily) > summaryDailyLimit {
		daily = daily[:summaryDailyLimit]
	}
	summary.Daily = dto.NewAttendanceResponseSlice(daily)

	now := s.now().UTC()
	s.fillWeekly(summary.Weekly, records, now)
	s.fillMonthly(summary.Monthly, records, now)

	return summary, nil
}

func (s *attendanceService) ChildSummary(ctx context.Context, parentID, studentID string) (dto.AttendanceSummaryResponse, error) {
	if err := verifyChild(ctx, s.students, parentID, studentID); err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	return s.Summary(ctx, studentID)
}

// fillWeekly buckets records into the current and previous calendar weeks,
// oldest first. Weeks start on Monday.
func (s *attendanceService) fillWeekly(buckets []dto.AttendanceBucket, records []models.Attendance, now time.Time) {
	weekStart := startOfWeek(now)
	for i := range buckets {
		offset := len(buckets) - 1 - i
		start := weekStart.AddDate(0, 0, -7*offset)
		end := start.AddDate(0, 0, 7)

		bucket := dto.AttendanceBucket{Label: fmt.Sprintf("Week of %s", start.Format("Jan 2"))}
		for _, record := range records {
			marked := record.MarkedAt.UTC()
			if marked.Before(start) || !marked.Before(end) {
				continue
			}
			bucket.Total++
			if record.IsPresent {
				bucket.Present++
			}
		}
		bucket.Percent = percent(bucket.Present, bucket.Total)
		buckets[i] = bucket
	}
}

// fillMonthly buckets records into the current and previous calendar
// months, oldest first.
func (s *attendanceService) fillMonthly(buckets []dto.AttendanceBucket, records []models.Attendance, now time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := range buckets {
		offset := len(buckets) - 1 - i
		start := monthStart.AddDate(0, -offset, 0)
		end := start.AddDate(0, 1, 0)

		bucket := dto.AttendanceBucket{Label: start.Format("Jan 2006")}
		for _, record := range records {
			marked := record.MarkedAt.UTC()
			if marked.Before(start) || !marked.Before(end) {
				continue
			}
			bucket.Total++
			if record.IsPresent {
				bucket.Present++
			}
		}
		bucket.Percent = percent(bucket.Present, bucket.Total)
		buckets[i] = bucket
	}
}

func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return day.AddDate(0, 0, -(weekday - 1))
}

func percent(present, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(present) / float64(total) * 100
}
