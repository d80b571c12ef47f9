package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

type memoryProfileRepo struct {
	profiles map[string]models.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[string]models.Profile)}
}

func (m *memoryProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.CreatedAt = time.Now()
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *memoryProfileRepo) GetByID(_ context.Context, id string) (models.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *memoryProfileRepo) GetByEmail(_ context.Context, email string) (models.Profile, error) {
	for _, profile := range m.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return models.Profile{}, gorm.ErrRecordNotFound
}

func (m *memoryProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	if _, ok := m.profiles[profile.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *memoryProfileRepo) List(_ context.Context) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(m.profiles))
	for _, profile := range m.profiles {
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (m *memoryProfileRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

type memoryRoleRepo struct {
	grants map[string][]string
}

func newMemoryRoleRepo() *memoryRoleRepo {
	return &memoryRoleRepo{grants: make(map[string][]string)}
}

func (m *memoryRoleRepo) ListRoles(_ context.Context, userID string) ([]string, error) {
	return m.grants[userID], nil
}

func (m *memoryRoleRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	for _, held := range m.grants[userID] {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRoleRepo) Grant(_ context.Context, userID, role string) error {
	held, err := m.HasRole(context.Background(), userID, role)
	if err != nil {
		return err
	}
	if !held {
		m.grants[userID] = append(m.grants[userID], role)
	}
	return nil
}

func (m *memoryRoleRepo) Revoke(_ context.Context, userID, role string) error {
	kept := m.grants[userID][:0]
	for _, held := range m.grants[userID] {
		if held != role {
			kept = append(kept, held)
		}
	}
	m.grants[userID] = kept
	return nil
}

func (m *memoryRoleRepo) ListUserIDsByRole(_ context.Context, role string) ([]string, error) {
	ids := make([]string, 0)
	for userID, held := range m.grants {
		for _, r := range held {
			if r == role {
				ids = append(ids, userID)
			}
		}
	}
	return ids, nil
}

func newAuthFixture(t *testing.T) (AuthService, *memoryProfileRepo, *memoryRoleRepo) {
	t.Helper()
	profiles := newMemoryProfileRepo()
	roles := newMemoryRoleRepo()
	tokens := utils.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuthService(profiles, roles, tokens, validate, zerolog.Nop()), profiles, roles
}

func TestSignupCreatesStudentAccount(t *testing.T) {
	svc, profiles, roles := newAuthFixture(t)

	result, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "  Priya@Example.COM ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, []string{models.RoleStudent}, result.Roles)
	require.Equal(t, "/student", result.DashboardRoute)

	// Email is normalised before storage.
	stored, err := profiles.GetByEmail(context.Background(), "priya@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", stored.PasswordHash)

	held, err := roles.HasRole(context.Background(), stored.ID, models.RoleStudent)
	require.NoError(t, err)
	require.True(t, held)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	payload := dto.SignupRequest{FullName: "Priya Sharma", Email: "priya@example.com", Password: "correct-horse"}
	_, err := svc.Signup(context.Background(), payload)
	require.NoError(t, err)

	payload.Email = strings.ToUpper(payload.Email)
	_, err = svc.Signup(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "priya@example.com", Password: "wrong-horse"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	signup, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: signup.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Equal(t, signup.User.ID, refreshed.User.ID)

	// Access tokens are not valid refresh tokens.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: signup.AccessToken})
	require.Error(t, err)
}

func TestGrantRoleUpdatesRegistry(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	signup, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	granted, err := svc.GrantRole(context.Background(), signup.User.ID, dto.GrantRoleRequest{Role: models.RoleTeacher})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{models.RoleStudent, models.RoleTeacher}, granted.Roles)

	// Granting twice stays idempotent.
	granted, err = svc.GrantRole(context.Background(), signup.User.ID, dto.GrantRoleRequest{Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Len(t, granted.Roles, 2)

	_, err = svc.GrantRole(context.Background(), uuid.NewString(), dto.GrantRoleRequest{Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.GrantRole(context.Background(), signup.User.ID, dto.GrantRoleRequest{Role: "superuser"})
	require.Error(t, err)
}

func TestRevokeRoleRemovesGrant(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	signup, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	revoked, err := svc.RevokeRole(context.Background(), signup.User.ID, models.RoleStudent)
	require.NoError(t, err)
	require.Empty(t, revoked.Roles)

	_, err = svc.RevokeRole(context.Background(), signup.User.ID, "superuser")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestListUsersIncludesRoles(t *testing.T) {
	svc, _, roles := newAuthFixture(t)

	signup, err := svc.Signup(context.Background(), dto.SignupRequest{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NoError(t, roles.Grant(context.Background(), signup.User.ID, models.RoleParent))

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.ElementsMatch(t, []string{models.RoleStudent, models.RoleParent}, users[0].Roles)
}

func TestDashboardRouteForPrefersHighestRole(t *testing.T) {
	cases := []struct {
		roles []string
		want  string
	}{
		{[]string{models.RoleStudent, models.RoleAdmin}, "/admin"},
		{[]string{models.RoleParent, models.RoleTeacher}, "/teacher"},
		{[]string{models.RoleParent, models.RoleStudent}, "/parent"},
		{[]string{models.RoleStudent}, "/student"},
		{nil, "/student"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, DashboardRouteFor(tc.roles), "roles %v", tc.roles)
	}
}
