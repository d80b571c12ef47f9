package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

type memoryBatchRepo struct {
	batches map[string]models.Batch
}

func newMemoryBatchRepo() *memoryBatchRepo {
	return &memoryBatchRepo{batches: make(map[string]models.Batch)}
}

func (m *memoryBatchRepo) Create(_ context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	m.batches[batch.ID] = *batch
	return nil
}

func (m *memoryBatchRepo) GetByID(_ context.Context, id string) (models.Batch, error) {
	batch, ok := m.batches[id]
	if !ok {
		return models.Batch{}, gorm.ErrRecordNotFound
	}
	return batch, nil
}

func (m *memoryBatchRepo) Update(_ context.Context, batch *models.Batch) error {
	if _, ok := m.batches[batch.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.batches[batch.ID] = *batch
	return nil
}

func (m *memoryBatchRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.batches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.batches, id)
	return nil
}

func (m *memoryBatchRepo) List(_ context.Context) ([]models.Batch, error) {
	batches := make([]models.Batch, 0, len(m.batches))
	for _, batch := range m.batches {
		batches = append(batches, batch)
	}
	return batches, nil
}

func (m *memoryBatchRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.Batch, error) {
	batches := make([]models.Batch, 0)
	for _, batch := range m.batches {
		if batch.TeacherID != nil && *batch.TeacherID == teacherID {
			batches = append(batches, batch)
		}
	}
	return batches, nil
}

func (m *memoryBatchRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.batches)), nil
}

type memoryEventRepo struct {
	events        map[string]models.Event
	registrations map[string]models.EventRegistration
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{
		events:        make(map[string]models.Event),
		registrations: make(map[string]models.EventRegistration),
	}
}

func (m *memoryEventRepo) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) GetByID(_ context.Context, id string) (models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memoryEventRepo) List(_ context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}
	return events, nil
}

func (m *memoryEventRepo) Register(_ context.Context, registration *models.EventRegistration) error {
	for _, existing := range m.registrations {
		if existing.EventID == registration.EventID && existing.StudentID == registration.StudentID {
			return repository.ErrAlreadyRegistered
		}
	}
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	m.registrations[registration.ID] = *registration
	return nil
}

func (m *memoryEventRepo) ListRegistrationsByStudent(_ context.Context, studentID string) ([]models.EventRegistration, error) {
	registrations := make([]models.EventRegistration, 0)
	for _, registration := range m.registrations {
		if registration.StudentID == studentID {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}

func (m *memoryEventRepo) ListRegistrationsByEvent(_ context.Context, eventID string) ([]models.EventRegistration, error) {
	registrations := make([]models.EventRegistration, 0)
	for _, registration := range m.registrations {
		if registration.EventID == eventID {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}

type memoryDemoRepo struct {
	bookings []models.DemoBooking
}

func (m *memoryDemoRepo) Create(_ context.Context, booking *models.DemoBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memoryDemoRepo) List(_ context.Context) ([]models.DemoBooking, error) {
	return m.bookings, nil
}

func (m *memoryDemoRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.bookings)), nil
}

type dashboardFixture struct {
	svc        DashboardService
	students   *memoryStudentRepo
	attendance *memoryAttendanceRepo
	fees       *memoryFeeRepo
	batches    *memoryBatchRepo
	demos      *memoryDemoRepo
	redis      *miniredis.Miniredis
}

func newDashboardFixture(t *testing.T, ttl time.Duration) *dashboardFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	fixture := &dashboardFixture{
		students:   newMemoryStudentRepo(),
		attendance: newMemoryAttendanceRepo(),
		fees:       newMemoryFeeRepo(),
		batches:    newMemoryBatchRepo(),
		demos:      &memoryDemoRepo{},
		redis:      mr,
	}
	fixture.svc = NewDashboardService(
		fixture.students,
		fixture.batches,
		newMemoryClassRepo(),
		fixture.attendance,
		newMemoryTestRepo(),
		newMemoryTaskRepo(),
		fixture.fees,
		newMemoryEventRepo(),
		newMemoryNotificationRepo(),
		fixture.demos,
		cache,
		ttl,
		zerolog.Nop(),
	)

	return fixture
}

func TestStudentDashboardAggregates(t *testing.T) {
	fixture := newDashboardFixture(t, time.Minute)

	student := models.Student{ID: uuid.NewString()}
	require.NoError(t, fixture.students.Create(context.Background(), &student))

	fixture.attendance.add(models.Attendance{ClassID: uuid.NewString(), StudentID: student.ID, IsPresent: true})
	fixture.attendance.add(models.Attendance{ClassID: uuid.NewString(), StudentID: student.ID, IsPresent: false})

	require.NoError(t, fixture.fees.Create(context.Background(), &models.Fee{
		StudentID: student.ID,
		Amount:    1500,
		DueDate:   time.Now().AddDate(0, 1, 0),
		Status:    models.FeeStatusPending,
	}))
	require.NoError(t, fixture.fees.Create(context.Background(), &models.Fee{
		StudentID: student.ID,
		Amount:    1500,
		DueDate:   time.Now(),
		Status:    models.FeeStatusPaid,
	}))

	dashboard, err := fixture.svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.InDelta(t, 50.0, dashboard.AttendancePercent, 0.01)
	require.Len(t, dashboard.PendingFees, 1)
}

func TestStudentDashboardServesCachedCopy(t *testing.T) {
	fixture := newDashboardFixture(t, time.Minute)

	student := models.Student{ID: uuid.NewString()}
	require.NoError(t, fixture.students.Create(context.Background(), &student))
	fixture.attendance.add(models.Attendance{ClassID: uuid.NewString(), StudentID: student.ID, IsPresent: true})

	first, err := fixture.svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.InDelta(t, 100.0, first.AttendancePercent, 0.01)

	// New data does not show until the cache entry expires.
	fixture.attendance.add(models.Attendance{ClassID: uuid.NewString(), StudentID: student.ID, IsPresent: false})

	cached, err := fixture.svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.InDelta(t, 100.0, cached.AttendancePercent, 0.01)

	fixture.redis.FastForward(2 * time.Minute)

	fresh, err := fixture.svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.InDelta(t, 50.0, fresh.AttendancePercent, 0.01)
}

func TestStudentDashboardUnknownStudent(t *testing.T) {
	fixture := newDashboardFixture(t, time.Minute)

	_, err := fixture.svc.StudentDashboard(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestParentDashboardSummarisesChildren(t *testing.T) {
	fixture := newDashboardFixture(t, time.Minute)

	parentID := uuid.NewString()
	child := models.Student{ID: uuid.NewString(), ParentID: &parentID}
	require.NoError(t, fixture.students.Create(context.Background(), &child))
	fixture.attendance.add(models.Attendance{ClassID: uuid.NewString(), StudentID: child.ID, IsPresent: true})

	dashboard, err := fixture.svc.ParentDashboard(context.Background(), parentID)
	require.NoError(t, err)
	require.Len(t, dashboard.Children, 1)
	require.InDelta(t, 100.0, dashboard.Children[0].AttendancePercent, 0.01)
}

func TestAdminDashboardCounts(t *testing.T) {
	fixture := newDashboardFixture(t, time.Minute)

	require.NoError(t, fixture.students.Create(context.Background(), &models.Student{ID: uuid.NewString()}))
	require.NoError(t, fixture.batches.Create(context.Background(), &models.Batch{Name: "Grade 8 CBSE"}))
	require.NoError(t, fixture.demos.Create(context.Background(), &models.DemoBooking{FullName: "Priya Sharma"}))
	require.NoError(t, fixture.fees.Create(context.Background(), &models.Fee{
		StudentID: uuid.NewString(),
		Amount:    900,
		DueDate:   time.Now(),
		Status:    models.FeeStatusPending,
	}))

	dashboard, err := fixture.svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), dashboard.TotalStudents)
	require.Equal(t, int64(1), dashboard.TotalBatches)
	require.Equal(t, int64(1), dashboard.PendingDemos)
	require.InDelta(t, 900.0, dashboard.FeeTotals.TotalPending, 0.01)
	require.Len(t, dashboard.RecentDemos, 1)
}
