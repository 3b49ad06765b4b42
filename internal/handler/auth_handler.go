package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// AuthHandler wires registration, profile and enrollment HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the endpoints reachable with a bare credential,
// before the profile resolver runs.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
}

// Register attaches the profile endpoints.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
	router.Patch("/me", h.updateProfile)
	router.Get("/teachers", h.listTeachers)
	router.Post("/enrollments/:teacherId", h.enroll)
	router.Delete("/enrollments/:teacherId", h.unenroll)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	subject := subjectFromContext(c)
	if subject == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.UserContext(), subject, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, "profile retrieved", dto.NewUserResponse(user))
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateProfile(c.UserContext(), user.ID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile updated", updated)
}

func (h *AuthHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AuthHandler) enroll(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Enroll(c.UserContext(), user.ID, c.Params("teacherId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "enrolled", updated)
}

func (h *AuthHandler) unenroll(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Unenroll(c.UserContext(), user.ID, c.Params("teacherId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "unenrolled", updated)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrUserExists):
		return utils.SendError(c, fiber.StatusConflict, "user already registered")
	case errors.Is(err, service.ErrUserRecordMissing):
		return utils.SendError(c, fiber.StatusForbidden, "registration required")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotTeacher):
		return utils.SendError(c, fiber.StatusBadRequest, "target user is not a teacher")
	case errors.Is(err, service.ErrStudentsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "students only")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
