package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// DemoBookingRepository handles persistence for demo-class bookings.
type DemoBookingRepository interface {
	Create(ctx context.Context, booking *models.DemoBooking) error
	List(ctx context.Context) ([]models.DemoBooking, error)
	Count(ctx context.Context) (int64, error)
}

type demoBookingRepository struct {
	db *gorm.DB
}

// NewDemoBookingRepository constructs a demo booking repository backed by GORM.
func NewDemoBookingRepository(db *gorm.DB) DemoBookingRepository {
	return &demoBookingRepository{db: db}
}

func (r *demoBookingRepository) Create(ctx context.Context, booking *models.DemoBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *demoBookingRepository) List(ctx context.Context) ([]models.DemoBooking, error) {
	var bookings []models.DemoBooking
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *demoBookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DemoBooking{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
