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

// GradingHandler wires grade and feedback HTTP routes.
type GradingHandler struct {
	grading  service.GradingService
	feedback service.FeedbackService
	logger   zerolog.Logger
}

// NewGradingHandler constructs the handler.
func NewGradingHandler(grading service.GradingService, feedback service.FeedbackService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading:  grading,
		feedback: feedback,
		logger:   logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches grading endpoints to the router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Post("/grades", h.createGrade)
	router.Get("/grades/:id", h.getGrade)
	router.Patch("/grades/:id", h.updateGrade)
	router.Post("/grades/:id/publish", h.publishGrade)
	router.Get("/submissions/:submissionId/grade", h.gradeForSubmission)

	router.Post("/feedback", h.createFeedback)
	router.Patch("/feedback/:id", h.updateFeedback)
	router.Get("/submissions/:submissionId/feedback", h.feedbackForSubmission)
}

func (h *GradingHandler) createGrade(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.grading.Create(c.UserContext(), user, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade created", grade)
}

func (h *GradingHandler) getGrade(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	grade, err := h.grading.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradingHandler) updateGrade(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.GradeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.grading.Update(c.UserContext(), user, c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade updated", grade)
}

func (h *GradingHandler) publishGrade(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	grade, err := h.grading.Publish(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade published", grade)
}

func (h *GradingHandler) gradeForSubmission(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	grade, err := h.grading.GetForSubmission(c.UserContext(), user, c.Params("submissionId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradingHandler) createFeedback(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.FeedbackCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.Create(c.UserContext(), user, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback created", feedback)
}

func (h *GradingHandler) updateFeedback(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload dto.FeedbackUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.Update(c.UserContext(), user, c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback updated", feedback)
}

func (h *GradingHandler) feedbackForSubmission(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	feedback, err := h.feedback.GetForSubmission(c.UserContext(), user, c.Params("submissionId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback retrieved", feedback)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrFeedbackNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "feedback not found")
	case errors.Is(err, service.ErrTeachersOnly):
		return utils.SendError(c, fiber.StatusForbidden, "teachers only")
	case errors.Is(err, service.ErrNotAssignmentOwner):
		return utils.SendError(c, fiber.StatusForbidden, "assignment is owned by another teacher")
	case errors.Is(err, service.ErrNotGradeTeacher):
		return utils.SendError(c, fiber.StatusForbidden, "grade is owned by another teacher")
	case errors.Is(err, service.ErrNotFeedbackAuthor):
		return utils.SendError(c, fiber.StatusForbidden, "feedback is owned by another teacher")
	case errors.Is(err, service.ErrNotSubmissionViewer):
		return utils.SendError(c, fiber.StatusForbidden, "submission belongs to another student")
	case errors.Is(err, service.ErrGradeNotVisible):
		return utils.SendError(c, fiber.StatusForbidden, "grade has not been published")
	case errors.Is(err, service.ErrGradeExists):
		return utils.SendError(c, fiber.StatusConflict, "submission already has a grade")
	case errors.Is(err, service.ErrFeedbackExists):
		return utils.SendError(c, fiber.StatusConflict, "submission already has feedback")
	case errors.Is(err, service.ErrGradeFinalized):
		return utils.SendError(c, fiber.StatusConflict, "grade is already finalized")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
