package dto

import (
	"time"

	"github.com/tilinsmath/tuition-api/internal/models"
)

// SignupRequest captures the payload for self-service account creation.
// New accounts always start with the student role.
type SignupRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest captures the credential payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ProfileResponse serializes an account profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by signup, login and refresh. DashboardRoute
// points the client at the landing page for its highest-priority role.
type AuthResponse struct {
	AccessToken    string          `json:"access_token"`
	RefreshToken   string          `json:"refresh_token"`
	User           ProfileResponse `json:"user"`
	Roles          []string        `json:"roles"`
	DashboardRoute string          `json:"dashboard_route"`
}

// MeResponse serializes the authenticated user with their roles.
type MeResponse struct {
	User  ProfileResponse `json:"user"`
	Roles []string        `json:"roles"`
}

// GrantRoleRequest names the role to grant a user.
type GrantRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin teacher parent student"`
}

// UserWithRolesResponse serializes a profile together with every role it
// holds, for the admin role-management screen.
type UserWithRolesResponse struct {
	User  ProfileResponse `json:"user"`
	Roles []string        `json:"roles"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID,
		FullName:  profile.FullName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CreatedAt: profile.CreatedAt,
	}
}
