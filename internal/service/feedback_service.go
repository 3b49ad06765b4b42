package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// ErrFeedbackNotFound indicates the requested feedback does not exist.
var ErrFeedbackNotFound = errors.New("feedback not found")

// ErrFeedbackExists indicates the submission already references feedback.
var ErrFeedbackExists = errors.New("submission already has feedback")

// ErrNotFeedbackAuthor indicates the feedback belongs to another teacher.
var ErrNotFeedbackAuthor = errors.New("feedback is owned by another teacher")

// FeedbackService manages free-text teacher commentary on submissions.
type FeedbackService interface {
	Create(ctx context.Context, teacher models.User, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error)
	Update(ctx context.Context, teacher models.User, feedbackID string, payload dto.FeedbackUpdateRequest) (dto.FeedbackResponse, error)
	GetForSubmission(ctx context.Context, viewer models.User, submissionID string) (dto.FeedbackResponse, error)
}

type feedbackService struct {
	feedback    repository.FeedbackRepository
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(feedback repository.FeedbackRepository, submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedback:    feedback,
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "feedback_service").Logger(),
		now:         time.Now,
	}
}

// Create attaches feedback to a submission. One feedback document per
// submission, enforced with the same guarded back-reference as grades.
func (s *feedbackService) Create(ctx context.Context, teacher models.User, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error) {
	if !teacher.IsTeacher() {
		return dto.FeedbackResponse{}, ErrTeachersOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.FeedbackResponse{}, ErrSubmissionNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	if err := s.authorizeTeacher(ctx, teacher, submission.AssignmentID); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if submission.HasFeedback() {
		return dto.FeedbackResponse{}, ErrFeedbackExists
	}

	status := payload.Status
	if status == "" {
		status = models.FeedbackStatusPending
	}

	feedback := models.Feedback{
		ID:           uuid.NewString(),
		SubmissionID: submission.ID,
		TeacherID:    teacher.ID,
		Content:      s.sanitizer.Sanitize(payload.Content),
		Status:       status,
	}

	if err := s.feedback.Create(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if err := s.submissions.SetFeedbackRef(ctx, submission.ID, feedback.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return dto.FeedbackResponse{}, ErrFeedbackExists
		}
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Str("feedback_id", feedback.ID).Str("submission_id", submission.ID).Msg("feedback created")

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) Update(ctx context.Context, teacher models.User, feedbackID string, payload dto.FeedbackUpdateRequest) (dto.FeedbackResponse, error) {
	if !teacher.IsTeacher() {
		return dto.FeedbackResponse{}, ErrTeachersOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	feedback, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.FeedbackResponse{}, ErrFeedbackNotFound
		}
		return dto.FeedbackResponse{}, err
	}
	if feedback.TeacherID != teacher.ID {
		return dto.FeedbackResponse{}, ErrNotFeedbackAuthor
	}

	if payload.Content != nil {
		feedback.Content = s.sanitizer.Sanitize(*payload.Content)
	}
	if payload.Status != nil {
		feedback.Status = *payload.Status
	}

	if err := s.feedback.Update(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Str("feedback_id", feedback.ID).Msg("feedback updated")

	return dto.NewFeedbackResponse(feedback), nil
}

// GetForSubmission loads the feedback attached to a submission. Teachers must
// own the assignment, students must own the submission.
func (s *feedbackService) GetForSubmission(ctx context.Context, viewer models.User, submissionID string) (dto.FeedbackResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.FeedbackResponse{}, ErrSubmissionNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	if viewer.IsTeacher() {
		if err := s.authorizeTeacher(ctx, viewer, submission.AssignmentID); err != nil {
			return dto.FeedbackResponse{}, err
		}
	} else if !submission.OwnedBy(viewer.ID) {
		return dto.FeedbackResponse{}, ErrNotSubmissionViewer
	}

	feedback, err := s.feedback.GetBySubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.FeedbackResponse{}, ErrFeedbackNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) authorizeTeacher(ctx context.Context, teacher models.User, assignmentID string) error {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !assignment.OwnedBy(teacher.ID) {
		return ErrNotAssignmentOwner
	}
	return nil
}
