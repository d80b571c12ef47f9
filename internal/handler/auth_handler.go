package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/signup", h.signup)
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
}

// RegisterProtected wires routes that require an authenticated session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
	router.Post("/logout", h.logout)
}

// RegisterAdmin wires the role-registry management routes.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Post("/users/:id/roles", h.grantRole)
	router.Delete("/users/:id/roles/:role", h.revokeRole)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Signup(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create account")
	}

	return utils.SendCreated(c, "account created", result)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to log in")
	}

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Refresh(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to refresh session")
	}

	return utils.SendSuccess(c, "session refreshed", result)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	result, err := h.service.Me(c.UserContext(), userID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", result)
}

// Tokens are stateless; logout just acknowledges so clients have a uniform
// place to discard the pair.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) listUsers(c *fiber.Ctx) error {
	result, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list users")
	}

	return utils.SendSuccess(c, "users", result)
}

func (h *AuthHandler) grantRole(c *fiber.Ctx) error {
	var payload dto.GrantRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.GrantRole(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to grant role")
	}

	return utils.SendSuccess(c, "role granted", result)
}

func (h *AuthHandler) revokeRole(c *fiber.Ctx) error {
	result, err := h.service.RevokeRole(c.UserContext(), c.Params("id"), c.Params("role"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to revoke role")
	}

	return utils.SendSuccess(c, "role revoked", result)
}
