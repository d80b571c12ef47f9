package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/observability"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrNotificationNotFound indicates the notification does not exist or
// belongs to another recipient.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNoRecipients indicates a fan-out target that resolved to nobody.
var ErrNoRecipients = errors.New("no recipients for notification")

// NotificationService exposes notification fan-out and inbox use cases.
type NotificationService interface {
	// Send resolves the target audience and inserts one row per
	// recipient in a single batch.
	Send(ctx context.Context, payload dto.SendNotificationRequest) (dto.SendNotificationResponse, error)
	NotifyRole(ctx context.Context, role, title, message string) (int, error)
	List(ctx context.Context, recipientID string, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, recipientID string) (dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (dto.UnreadCountResponse, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	students      repository.StudentRepository
	roles         repository.RoleRepository
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	publisher     realtime.Publisher
	tracer        trace.Tracer
	logger        zerolog.Logger
	now           func() time.Time
}

// NewNotificationService builds a new notification service.
func NewNotificationService(
	notifications repository.NotificationRepository,
	students repository.StudentRepository,
	roles repository.RoleRepository,
	validate *validator.Validate,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		students:      students,
		roles:         roles,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		publisher:     publisher,
		tracer:        otel.Tracer("github.com/tilinsmath/tuition-api/internal/service/notification"),
		logger:        logger.With().Str("component", "notification_service").Logger(),
		now:           time.Now,
	}
}

func (s *notificationService) Send(ctx context.Context, payload dto.SendNotificationRequest) (dto.SendNotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SendNotificationResponse{}, err
	}

	attrs := []attribute.KeyValue{attribute.String("notification.target", payload.Target)}
	spanCtx, span := s.tracer.Start(ctx, "notifications.send", trace.WithAttributes(attrs...))
	defer span.End()

	recipientIDs, err := s.resolveRecipients(spanCtx, payload)
	if err != nil {
		return dto.SendNotificationResponse{}, err
	}
	if len(recipientIDs) == 0 {
		return dto.SendNotificationResponse{}, ErrNoRecipients
	}

	count, err := s.fanOut(spanCtx, payload.Target, recipientIDs, payload.Title, payload.Message)
	if err != nil {
		return dto.SendNotificationResponse{}, err
	}

	span.SetAttributes(attribute.Int("notification.recipients", count))

	return dto.SendNotificationResponse{Target: payload.Target, Recipients: count}, nil
}

func (s *notificationService) NotifyRole(ctx context.Context, role, title, message string) (int, error) {
	recipientIDs, err := s.roles.ListUserIDsByRole(ctx, role)
	if err != nil {
		return 0, err
	}
	if len(recipientIDs) == 0 {
		return 0, nil
	}

	return s.fanOut(ctx, "role:"+role, recipientIDs, title, message)
}

func (s *notificationService) List(ctx context.Context, recipientID string, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID string) (dto.NotificationResponse, error) {
	notification, err := s.notifications.MarkRead(ctx, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}

		return dto.NotificationResponse{}, err
	}

	s.publisher.Publish(ctx, "notifications", realtime.ActionUpdate, notification.ID)

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (dto.UnreadCountResponse, error) {
	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return dto.UnreadCountResponse{}, err
	}

	return dto.UnreadCountResponse{Unread: count}, nil
}

func (s *notificationService) resolveRecipients(ctx context.Context, payload dto.SendNotificationRequest) ([]string, error) {
	switch payload.Target {
	case dto.NotificationTargetAll:
		// "all" means every student, not every account.
		return s.students.ListIDs(ctx)
	case dto.NotificationTargetBatch:
		return s.students.ListIDsByBatch(ctx, payload.BatchID)
	case dto.NotificationTargetIndividual:
		return []string{payload.RecipientID}, nil
	default:
		return nil, errors.New("unknown notification target")
	}
}

// fanOut sanitizes the content, inserts one row per recipient and raises a
// single change event for the audience.
func (s *notificationService) fanOut(ctx context.Context, target string, recipientIDs []string, title, message string) (int, error) {
	title = strings.TrimSpace(s.sanitizer.Sanitize(title))
	message = strings.TrimSpace(s.sanitizer.Sanitize(message))

	rows := make([]models.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		rows = append(rows, models.Notification{
			RecipientID: recipientID,
			Title:       title,
			Message:     message,
		})
	}

	if err := s.notifications.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}

	observability.NotificationsFannedOut().WithLabelValues(target).Add(float64(len(rows)))
	s.publisher.Publish(ctx, "notifications", realtime.ActionInsert, "")
	s.logger.Info().Str("target", target).Int("recipients", len(rows)).Msg("notification fanned out")

	return len(rows), nil
}
