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

// ReviewHandler wires grade review request HTTP routes.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register attaches review request endpoints to the router group.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.request)
	router.Post("/:id/respond", h.respond)
}

func (h *ReviewHandler) request(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.ReviewRequestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.Request(c.UserContext(), user, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review requested", request)
}

func (h *ReviewHandler) respond(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.ReviewRespondRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.Respond(c.UserContext(), user, c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "review responded", request)
}

func (h *ReviewHandler) get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	request, err := h.service.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "review request retrieved", request)
}

func (h *ReviewHandler) list(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	result, err := h.service.List(c.UserContext(), user, page, limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPaginated(c, "review requests retrieved", result)
}

func (h *ReviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrReviewNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "review request not found")
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	case errors.Is(err, service.ErrStudentsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "students only")
	case errors.Is(err, service.ErrTeachersOnly):
		return utils.SendError(c, fiber.StatusForbidden, "teachers only")
	case errors.Is(err, service.ErrReviewNotAllowed):
		return utils.SendError(c, fiber.StatusForbidden, "grade belongs to another student")
	case errors.Is(err, service.ErrNotGradeTeacher):
		return utils.SendError(c, fiber.StatusForbidden, "grade is owned by another teacher")
	case errors.Is(err, service.ErrGradeNotVisible):
		return utils.SendError(c, fiber.StatusConflict, "grade has not been published")
	case errors.Is(err, service.ErrReviewPendingExists):
		return utils.SendError(c, fiber.StatusConflict, "grade already has a pending review request")
	case errors.Is(err, service.ErrReviewResponded):
		return utils.SendError(c, fiber.StatusConflict, "review request has already been responded to")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
