package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
)

type memoryNotificationRepo struct {
	rows map[string]models.Notification
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{rows: make(map[string]models.Notification)}
}

func (m *memoryNotificationRepo) CreateBatch(_ context.Context, notifications []models.Notification) error {
	for _, notification := range notifications {
		if notification.ID == "" {
			notification.ID = uuid.NewString()
		}
		m.rows[notification.ID] = notification
	}
	return nil
}

func (m *memoryNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _, _ int) ([]models.Notification, error) {
	rows := make([]models.Notification, 0)
	for _, notification := range m.rows {
		if notification.RecipientID == recipientID {
			rows = append(rows, notification)
		}
	}
	return rows, nil
}

func (m *memoryNotificationRepo) MarkRead(_ context.Context, id, recipientID string) (models.Notification, error) {
	notification, ok := m.rows[id]
	if !ok || notification.RecipientID != recipientID {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	notification.IsRead = true
	m.rows[id] = notification
	return notification, nil
}

func (m *memoryNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, notification := range m.rows {
		if notification.RecipientID == recipientID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func newNotificationFixture(t *testing.T) (NotificationService, *memoryNotificationRepo, *memoryStudentRepo, *memoryRoleRepo) {
	t.Helper()
	notifications := newMemoryNotificationRepo()
	students := newMemoryStudentRepo()
	roles := newMemoryRoleRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewNotificationService(notifications, students, roles, validate, &recordingPublisher{}, zerolog.Nop())
	return svc, notifications, students, roles
}

func TestSendToAllTargetsEveryStudent(t *testing.T) {
	svc, notifications, students, roles := newNotificationFixture(t)

	student := models.Student{ID: uuid.NewString()}
	require.NoError(t, students.Create(context.Background(), &student))

	// An account holding only a staff role is not part of the audience.
	require.NoError(t, roles.Grant(context.Background(), uuid.NewString(), models.RoleTeacher))

	result, err := svc.Send(context.Background(), dto.SendNotificationRequest{
		Target:  dto.NotificationTargetAll,
		Title:   "Holiday notice",
		Message: "The center is closed on Friday.",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Recipients)
	require.Len(t, notifications.rows, 1)
	for _, row := range notifications.rows {
		require.Equal(t, student.ID, row.RecipientID)
	}
}

func TestSendToBatchTargetsRosterOnly(t *testing.T) {
	svc, notifications, students, _ := newNotificationFixture(t)

	batchID := uuid.NewString()
	inBatch := models.Student{ID: uuid.NewString(), BatchID: &batchID}
	require.NoError(t, students.Create(context.Background(), &inBatch))
	outside := models.Student{ID: uuid.NewString()}
	require.NoError(t, students.Create(context.Background(), &outside))

	result, err := svc.Send(context.Background(), dto.SendNotificationRequest{
		Target:  dto.NotificationTargetBatch,
		BatchID: batchID,
		Title:   "Class moved",
		Message: "Tomorrow's class starts an hour later.",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Recipients)

	for _, row := range notifications.rows {
		require.Equal(t, inBatch.ID, row.RecipientID)
	}
}

func TestSendToIndividual(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture(t)

	recipient := uuid.NewString()
	result, err := svc.Send(context.Background(), dto.SendNotificationRequest{
		Target:      dto.NotificationTargetIndividual,
		RecipientID: recipient,
		Title:       "Fee reminder",
		Message:     "Your March installment is due.",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Recipients)
	require.Len(t, notifications.rows, 1)
}

func TestSendStripsMarkup(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture(t)

	_, err := svc.Send(context.Background(), dto.SendNotificationRequest{
		Target:      dto.NotificationTargetIndividual,
		RecipientID: uuid.NewString(),
		Title:       "<b>Update</b>",
		Message:     "<script>alert(1)</script>See the new schedule.",
	})
	require.NoError(t, err)

	for _, row := range notifications.rows {
		require.Equal(t, "Update", row.Title)
		require.Equal(t, "See the new schedule.", row.Message)
	}
}

func TestSendToAllWithoutStudentsFails(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(t)

	_, err := svc.Send(context.Background(), dto.SendNotificationRequest{
		Target:  dto.NotificationTargetAll,
		Title:   "Hello",
		Message: "Anyone there?",
	})
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestNotifyRoleReachesEveryHolder(t *testing.T) {
	svc, notifications, _, roles := newNotificationFixture(t)

	first := uuid.NewString()
	second := uuid.NewString()
	require.NoError(t, roles.Grant(context.Background(), first, models.RoleAdmin))
	require.NoError(t, roles.Grant(context.Background(), second, models.RoleAdmin))
	require.NoError(t, roles.Grant(context.Background(), uuid.NewString(), models.RoleStudent))

	count, err := svc.NotifyRole(context.Background(), models.RoleAdmin, "Retest requested", "A student asked for a retest.")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, notifications.rows, 2)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture(t)

	owner := uuid.NewString()
	require.NoError(t, notifications.CreateBatch(context.Background(), []models.Notification{
		{ID: uuid.NewString(), RecipientID: owner, Title: "Hi", Message: "There"},
	}))

	var id string
	for rowID := range notifications.rows {
		id = rowID
	}

	// Another user cannot mark someone else's notification.
	_, err := svc.MarkRead(context.Background(), id, uuid.NewString())
	require.ErrorIs(t, err, ErrNotificationNotFound)

	marked, err := svc.MarkRead(context.Background(), id, owner)
	require.NoError(t, err)
	require.True(t, marked.IsRead)

	unread, err := svc.UnreadCount(context.Background(), owner)
	require.NoError(t, err)
	require.Zero(t, unread.Unread)
}
