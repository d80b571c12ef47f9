package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

const (
	dashboardRecentMarks   = 5
	dashboardRecentDemos   = 5
	dashboardUpcomingLimit = 5
)

// DashboardService produces the aggregated landing-page payloads for each
// role. Student and parent dashboards are cached briefly in Redis.
type DashboardService interface {
	StudentDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error)
	ParentDashboard(ctx context.Context, parentID string) (dto.ParentDashboardResponse, error)
	AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error)
}

type dashboardService struct {
	students      repository.StudentRepository
	batches       repository.BatchRepository
	classes       repository.ClassRepository
	attendance    repository.AttendanceRepository
	tests         repository.TestRepository
	tasks         repository.TaskRepository
	fees          repository.FeeRepository
	events        repository.EventRepository
	notifications repository.NotificationRepository
	demos         repository.DemoBookingRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	students repository.StudentRepository,
	batches repository.BatchRepository,
	classes repository.ClassRepository,
	attendance repository.AttendanceRepository,
	tests repository.TestRepository,
	tasks repository.TaskRepository,
	fees repository.FeeRepository,
	events repository.EventRepository,
	notifications repository.NotificationRepository,
	demos repository.DemoBookingRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		students:      students,
		batches:       batches,
		classes:       classes,
		attendance:    attendance,
		tests:         tests,
		tasks:         tasks,
		fees:          fees,
		events:        events,
		notifications: notifications,
		demos:         demos,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
		now:           time.Now,
	}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%s", studentID)
	var cached dto.StudentDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDashboardResponse{}, ErrStudentNotFound
		}

		return dto.StudentDashboardResponse{}, err
	}

	now := s.now().UTC()
	response := dto.StudentDashboardResponse{
		Student:         dto.NewStudentResponse(student),
		UpcomingClasses: []dto.ClassResponse{},
		PendingTasks:    []dto.TaskSubmissionResponse{},
		RecentMarks:     []dto.TestMarkResponse{},
		PendingFees:     []dto.FeeResponse{},
		UpcomingEvents:  []dto.EventResponse{},
	}

	if student.BatchID != nil {
		classes, err := s.classes.ListByBatch(ctx, *student.BatchID)
		if err != nil {
			return dto.StudentDashboardResponse{}, err
		}
		response.UpcomingClasses = upcomingClasses(classes, now)

		pending, err := s.pendingTasks(ctx, *student.BatchID, studentID, now)
		if err != nil {
			return dto.StudentDashboardResponse{}, err
		}
		response.PendingTasks = pending
	}

	attendanceRecords, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	present := 0
	for _, record := range attendanceRecords {
		if record.IsPresent {
			present++
		}
	}
	response.AttendancePercent = percent(present, len(attendanceRecords))

	marks, err := s.tests.ListMarksByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	if len(marks) > dashboardRecentMarks {
		marks = marks[:dashboardRecentMarks]
	}
	response.RecentMarks = dto.NewTestMarkResponseSlice(marks, 0)

	studentFees, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	response.PendingFees = pendingFees(studentFees)

	unread, err := s.notifications.CountUnread(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	response.UnreadNotifications = unread

	events, err := s.events.List(ctx)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	for _, event := range events {
		if event.EventDate.Before(now) {
			continue
		}
		response.UpcomingEvents = append(response.UpcomingEvents, dto.NewEventResponse(event))
		if len(response.UpcomingEvents) == dashboardUpcomingLimit {
			break
		}
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *dashboardService) ParentDashboard(ctx context.Context, parentID string) (dto.ParentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:parent:%s", parentID)
	var cached dto.ParentDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	children, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return dto.ParentDashboardResponse{}, err
	}

	response := dto.ParentDashboardResponse{Children: make([]dto.ChildSummary, 0, len(children))}
	for _, child := range children {
		summary := dto.ChildSummary{Student: dto.NewStudentResponse(child)}

		records, err := s.attendance.ListByStudent(ctx, child.ID)
		if err != nil {
			return dto.ParentDashboardResponse{}, err
		}
		present := 0
		for _, record := range records {
			if record.IsPresent {
				present++
			}
		}
		summary.AttendancePercent = percent(present, len(records))

		marks, err := s.tests.ListMarksByStudent(ctx, child.ID)
		if err != nil {
			return dto.ParentDashboardResponse{}, err
		}
		if len(marks) > dashboardRecentMarks {
			marks = marks[:dashboardRecentMarks]
		}
		summary.RecentMarks = dto.NewTestMarkResponseSlice(marks, 0)

		childFees, err := s.fees.ListByStudent(ctx, child.ID)
		if err != nil {
			return dto.ParentDashboardResponse{}, err
		}
		summary.PendingFees = pendingFees(childFees)

		response.Children = append(response.Children, summary)
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	totalBatches, err := s.batches.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	now := s.now().UTC()
	upcoming, err := s.classes.CountUpcoming(ctx, now)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	pendingDemos, err := s.demos.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	totals, err := s.fees.TotalsByStatus(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	bookings, err := s.demos.List(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if len(bookings) > dashboardRecentDemos {
		bookings = bookings[:dashboardRecentDemos]
	}

	return dto.AdminDashboardResponse{
		TotalStudents:   totalStudents,
		TotalBatches:    totalBatches,
		UpcomingClasses: upcoming,
		PendingDemos:    pendingDemos,
		FeeTotals: dto.FeeTotalsResponse{
			TotalPaid:    totals[models.FeeStatusPaid],
			TotalPending: totals[models.FeeStatusPending],
			TotalOverdue: totals[models.FeeStatusOverdue],
		},
		RecentDemos: dto.NewDemoBookingResponseSlice(bookings),
	}, nil
}

// pendingTasks lists the batch's tasks the student has not completed, with
// any partial submission state attached.
func (s *dashboardService) pendingTasks(ctx context.Context, batchID, studentID string, now time.Time) ([]dto.TaskSubmissionResponse, error) {
	tasks, err := s.tasks.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.tasks.ListSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	byTask := make(map[string]models.TaskSubmission, len(submissions))
	for _, submission := range submissions {
		byTask[submission.TaskID] = submission
	}

	pending := []dto.TaskSubmissionResponse{}
	for i := range tasks {
		task := tasks[i]
		submission, exists := byTask[task.ID]
		if exists && submission.IsCompleted {
			continue
		}
		if !exists {
			submission = models.TaskSubmission{TaskID: task.ID, StudentID: studentID}
		}
		submission.Task = &task
		pending = append(pending, dto.NewTaskSubmissionResponse(submission, now))
	}

	return pending, nil
}

func (s *dashboardService) readCache(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	return true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
	}
}

func upcomingClasses(classes []models.Class, now time.Time) []dto.ClassResponse {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	upcoming := []models.Class{}
	for i := len(classes) - 1; i >= 0; i-- { // stored newest first
		class := classes[i]
		if class.IsCompleted || class.Date.Before(dayStart) {
			continue
		}
		upcoming = append(upcoming, class)
		if len(upcoming) == dashboardUpcomingLimit {
			break
		}
	}

	return dto.NewClassResponseSlice(upcoming)
}

func pendingFees(fees []models.Fee) []dto.FeeResponse {
	pending := []models.Fee{}
	for _, fee := range fees {
		if fee.Status == models.FeeStatusPaid {
			continue
		}
		pending = append(pending, fee)
	}

	return dto.NewFeeResponseSlice(pending)
}
