package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// Notification targets.
const (
	NotificationTargetAll        = "all"
	NotificationTargetBatch      = "batch"
	NotificationTargetIndividual = "individual"
)

// SendNotificationRequest fans a message out to one of three audiences.
// BatchID is required for the batch target, RecipientID for individual.
type SendNotificationRequest struct {
	Target      string `json:"target" validate:"required,oneof=all batch individual"`
	BatchID     string `json:"batch_id" validate:"required_if=Target batch,omitempty,uuid4"`
	RecipientID string `json:"recipient_id" validate:"required_if=Target individual,omitempty,uuid4"`
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Message     string `json:"message" validate:"required,min=1,max=10000"`
}

// SendNotificationResponse reports how many recipients a send reached.
type SendNotificationResponse struct {
	Target     string `json:"target"`
	Recipients int    `json:"recipients"`
}

// NotificationResponse serializes one notification row.
type NotificationResponse struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnreadCountResponse carries the unread badge count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// NewNotificationResponse converts a notification model into a DTO.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		Title:       notification.Title,
		Message:     notification.Message,
		IsRead:      notification.IsRead,
		CreatedAt:   notification.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of notification models.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
