package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/repository"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// ErrInvalidCredentials indicates a failed email/password check. Login
// reports it for unknown emails too, so the response never reveals
// whether an account exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrProfileNotFound indicates the requested profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ErrUnknownRole indicates a role name outside the recognised set.
var ErrUnknownRole = errors.New("unknown role")

// AuthService exposes account, session and role-registry use cases.
type AuthService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (dto.MeResponse, error)

	ListUsers(ctx context.Context) ([]dto.UserWithRolesResponse, error)
	GrantRole(ctx context.Context, userID string, payload dto.GrantRoleRequest) (dto.UserWithRolesResponse, error)
	RevokeRole(ctx context.Context, userID, role string) (dto.UserWithRolesResponse, error)
}

type authService struct {
	profiles  repository.ProfileRepository
	roles     repository.RoleRepository
	tokens    *utils.TokenManager
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	tokens *utils.TokenManager,
	validate *validator.Validate,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		profiles:  profiles,
		roles:     roles,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// DashboardRouteFor picks the landing route for the highest-priority role
// the user holds. Users with no granted roles land on the student page.
func DashboardRouteFor(roles []string) string {
	held := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		held[role] = struct{}{}
	}

	for _, role := range models.RolePriority {
		if _, ok := held[role]; ok {
			return "/" + role
		}
	}

	return "/" + models.RoleStudent
}

func (s *authService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	profile := models.Profile{
		FullName:     strings.TrimSpace(payload.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(payload.Phone),
		Role:         models.RoleStudent,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.AuthResponse{}, err
	}

	if err := s.roles.Grant(ctx, profile.ID, models.RoleStudent); err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", profile.ID).Msg("account created")

	return s.issueTokens(profile, []string{models.RoleStudent})
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}

		return dto.AuthResponse{}, err
	}

	if !utils.CheckPassword(payload.Password, profile.PasswordHash) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	roles, err := s.roles.ListRoles(ctx, profile.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", profile.ID).Msg("login succeeded")

	return s.issueTokens(profile, roles)
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	userID, err := s.tokens.ParseRefreshToken(payload.RefreshToken)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, utils.ErrInvalidToken
		}

		return dto.AuthResponse{}, err
	}

	roles, err := s.roles.ListRoles(ctx, profile.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return s.issueTokens(profile, roles)
}

func (s *authService) Me(ctx context.Context, userID string) (dto.MeResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MeResponse{}, ErrProfileNotFound
		}

		return dto.MeResponse{}, err
	}

	roles, err := s.roles.ListRoles(ctx, userID)
	if err != nil {
		return dto.MeResponse{}, err
	}

	return dto.MeResponse{User: dto.NewProfileResponse(profile), Roles: roles}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserWithRolesResponse, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]dto.UserWithRolesResponse, 0, len(profiles))
	for _, profile := range profiles {
		roles, err := s.roles.ListRoles(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		users = append(users, dto.UserWithRolesResponse{User: dto.NewProfileResponse(profile), Roles: roles})
	}

	return users, nil
}

func (s *authService) GrantRole(ctx context.Context, userID string, payload dto.GrantRoleRequest) (dto.UserWithRolesResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserWithRolesResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserWithRolesResponse{}, ErrProfileNotFound
		}

		return dto.UserWithRolesResponse{}, err
	}

	if err := s.roles.Grant(ctx, userID, payload.Role); err != nil {
		return dto.UserWithRolesResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("role", payload.Role).Msg("role granted")

	return s.userWithRoles(ctx, profile)
}

func (s *authService) RevokeRole(ctx context.Context, userID, role string) (dto.UserWithRolesResponse, error) {
	if !models.ValidRole(role) {
		return dto.UserWithRolesResponse{}, ErrUnknownRole
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserWithRolesResponse{}, ErrProfileNotFound
		}

		return dto.UserWithRolesResponse{}, err
	}

	if err := s.roles.Revoke(ctx, userID, role); err != nil {
		return dto.UserWithRolesResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("role revoked")

	return s.userWithRoles(ctx, profile)
}

func (s *authService) userWithRoles(ctx context.Context, profile models.Profile) (dto.UserWithRolesResponse, error) {
	roles, err := s.roles.ListRoles(ctx, profile.ID)
	if err != nil {
		return dto.UserWithRolesResponse{}, err
	}

	return dto.UserWithRolesResponse{User: dto.NewProfileResponse(profile), Roles: roles}, nil
}

func (s *authService) issueTokens(profile models.Profile, roles []string) (dto.AuthResponse, error) {
	now := s.now()

	accessToken, err := s.tokens.GenerateAccessToken(profile.ID, roles, now)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(profile.ID, now)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		User:           dto.NewProfileResponse(profile),
		Roles:          roles,
		DashboardRoute: DashboardRouteFor(roles),
	}, nil
}
