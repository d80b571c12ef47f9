package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// ErrAlreadyRegistered indicates a student already holds a registration for
// the event.
var ErrAlreadyRegistered = errors.New("student already registered for event")

// EventRepository handles persistence for events and registrations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Event, error)

	// Register inserts a registration, returning ErrAlreadyRegistered when
	// the (event, student) pair already exists.
	Register(ctx context.Context, registration *models.EventRegistration) error
	ListRegistrationsByStudent(ctx context.Context, studentID string) ([]models.EventRegistration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string) ([]models.EventRegistration, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs an event repository backed by GORM.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Event{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("event_date").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Register(ctx context.Context, registration *models.EventRegistration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND student_id = ?", registration.EventID, registration.StudentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRegistered
		}

		return tx.Create(registration).Error
	})
}

func (r *eventRepository) ListRegistrationsByStudent(ctx context.Context, studentID string) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	return registrations, nil
}

func (r *eventRepository) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at").
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	return registrations, nil
}
