package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// RoleRepository is the authoritative multi-role-per-user permission store.
type RoleRepository interface {
	ListRoles(ctx context.Context, userID string) ([]string, error)
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Grant(ctx context.Context, userID, role string) error
	Revoke(ctx context.Context, userID, role string) error
	ListUserIDsByRole(ctx context.Context, role string) ([]string, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs a role repository backed by GORM.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	var roles []string
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *roleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *roleRepository) Grant(ctx context.Context, userID, role string) error {
	held, err := r.HasRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	return r.db.WithContext(ctx).Create(&models.UserRole{UserID: userID, Role: role}).Error
}

func (r *roleRepository) Revoke(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}

func (r *roleRepository) ListUserIDsByRole(ctx context.Context, role string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
