package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
)

type memoryStudentRepo struct {
	students map[string]models.Student
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[string]models.Student)}
}

func (m *memoryStudentRepo) Create(_ context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id string) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) Save(_ context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *memoryStudentRepo) List(_ context.Context) ([]models.Student, error) {
	students := make([]models.Student, 0, len(m.students))
	for _, student := range m.students {
		students = append(students, student)
	}
	return students, nil
}

func (m *memoryStudentRepo) ListByBatch(_ context.Context, batchID string) ([]models.Student, error) {
	students := make([]models.Student, 0)
	for _, student := range m.students {
		if student.BatchID != nil && *student.BatchID == batchID {
			students = append(students, student)
		}
	}
	return students, nil
}

func (m *memoryStudentRepo) ListByParent(_ context.Context, parentID string) ([]models.Student, error) {
	students := make([]models.Student, 0)
	for _, student := range m.students {
		if student.ParentID != nil && *student.ParentID == parentID {
			students = append(students, student)
		}
	}
	return students, nil
}

func (m *memoryStudentRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryStudentRepo) ListIDsByBatch(ctx context.Context, batchID string) ([]string, error) {
	students, err := m.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}
	return ids, nil
}

func (m *memoryStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.students)), nil
}

type memoryFeeRepo struct {
	fees map[string]models.Fee
}

func newMemoryFeeRepo() *memoryFeeRepo {
	return &memoryFeeRepo{fees: make(map[string]models.Fee)}
}

func (m *memoryFeeRepo) Create(_ context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	m.fees[fee.ID] = *fee
	return nil
}

func (m *memoryFeeRepo) CreateBatch(ctx context.Context, fees []models.Fee) error {
	for i := range fees {
		if err := m.Create(ctx, &fees[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryFeeRepo) GetByID(_ context.Context, id string) (models.Fee, error) {
	fee, ok := m.fees[id]
	if !ok {
		return models.Fee{}, gorm.ErrRecordNotFound
	}
	return fee, nil
}

func (m *memoryFeeRepo) Update(_ context.Context, fee *models.Fee) error {
	if _, ok := m.fees[fee.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.fees[fee.ID] = *fee
	return nil
}

func (m *memoryFeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.fees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.fees, id)
	return nil
}

func (m *memoryFeeRepo) List(_ context.Context) ([]models.Fee, error) {
	fees := make([]models.Fee, 0, len(m.fees))
	for _, fee := range m.fees {
		fees = append(fees, fee)
	}
	return fees, nil
}

func (m *memoryFeeRepo) ListByStudent(_ context.Context, studentID string) ([]models.Fee, error) {
	fees := make([]models.Fee, 0)
	for _, fee := range m.fees {
		if fee.StudentID == studentID {
			fees = append(fees, fee)
		}
	}
	return fees, nil
}

func (m *memoryFeeRepo) TotalsByStatus(_ context.Context) (map[string]float64, error) {
	totals := make(map[string]float64)
	for _, fee := range m.fees {
		totals[fee.Status] += fee.Amount
	}
	return totals, nil
}

func newFeeFixture(t *testing.T) (FeeService, *memoryFeeRepo, *memoryStudentRepo) {
	t.Helper()
	fees := newMemoryFeeRepo()
	students := newMemoryStudentRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewFeeService(fees, students, validate, &recordingPublisher{}, zerolog.Nop())
	return svc, fees, students
}

func TestCreateFeeStampsPaidDate(t *testing.T) {
	svc, _, students := newFeeFixture(t)

	student := models.Student{ID: uuid.NewString()}
	require.NoError(t, students.Create(context.Background(), &student))

	pending, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		StudentID: student.ID,
		Amount:    1500,
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPending, pending.Status)
	require.Nil(t, pending.PaidDate)

	paid, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		StudentID: student.ID,
		Amount:    1500,
		DueDate:   time.Now().AddDate(0, 1, 0),
		Status:    models.FeeStatusPaid,
	})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidDate)
}

func TestUpdateFeeStatusTransitionsPaidDate(t *testing.T) {
	svc, fees, students := newFeeFixture(t)

	student := models.Student{ID: uuid.NewString()}
	require.NoError(t, students.Create(context.Background(), &student))

	created, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		StudentID: student.ID,
		Amount:    2000,
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	paidStatus := models.FeeStatusPaid
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateFeeRequest{Status: &paidStatus})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidDate)

	// Moving away from paid clears the stamp.
	overdueStatus := models.FeeStatusOverdue
	updated, err = svc.Update(context.Background(), created.ID, dto.UpdateFeeRequest{Status: &overdueStatus})
	require.NoError(t, err)
	require.Nil(t, updated.PaidDate)

	stored, err := fees.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Nil(t, stored.PaidDate)
}

func TestCreateFeesForBatchFansOutToRoster(t *testing.T) {
	svc, fees, students := newFeeFixture(t)

	batchID := uuid.NewString()
	for i := 0; i < 3; i++ {
		student := models.Student{ID: uuid.NewString(), BatchID: &batchID}
		require.NoError(t, students.Create(context.Background(), &student))
	}

	created, err := svc.CreateForBatch(context.Background(), dto.CreateBatchFeesRequest{
		BatchID: batchID,
		Amount:  1200,
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	stored, err := fees.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, fee := range stored {
		require.Equal(t, models.FeeStatusPending, fee.Status)
		require.InDelta(t, 1200.0, fee.Amount, 0.01)
	}
}

func TestCreateFeesForBatchRejectsEmptyRoster(t *testing.T) {
	svc, _, _ := newFeeFixture(t)

	_, err := svc.CreateForBatch(context.Background(), dto.CreateBatchFeesRequest{
		BatchID: uuid.NewString(),
		Amount:  1200,
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestListChildFeesScopedToParent(t *testing.T) {
	svc, fees, students := newFeeFixture(t)

	parentID := uuid.NewString()
	child := models.Student{ID: uuid.NewString(), ParentID: &parentID}
	require.NoError(t, students.Create(context.Background(), &child))
	require.NoError(t, fees.Create(context.Background(), &models.Fee{
		StudentID: child.ID,
		Amount:    900,
		Status:    models.FeeStatusPending,
	}))

	listed, err := svc.ListChildFees(context.Background(), parentID, child.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Another parent reads the child as missing.
	_, err = svc.ListChildFees(context.Background(), uuid.NewString(), child.ID)
	require.ErrorIs(t, err, ErrStudentNotFound)

	// Unknown students look the same.
	_, err = svc.ListChildFees(context.Background(), parentID, uuid.NewString())
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestFeeTotalsGroupedByStatus(t *testing.T) {
	svc, fees, _ := newFeeFixture(t)

	rows := []models.Fee{
		{StudentID: uuid.NewString(), Amount: 100, Status: models.FeeStatusPaid},
		{StudentID: uuid.NewString(), Amount: 250, Status: models.FeeStatusPaid},
		{StudentID: uuid.NewString(), Amount: 400, Status: models.FeeStatusPending},
	}
	for i := range rows {
		require.NoError(t, fees.Create(context.Background(), &rows[i]))
	}

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 350.0, totals.TotalPaid, 0.01)
	require.InDelta(t, 400.0, totals.TotalPending, 0.01)
	require.Zero(t, totals.TotalOverdue)
}
