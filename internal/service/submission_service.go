package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrContentRequired indicates a submission without text or file content.
var ErrContentRequired = errors.New("submission requires text content or a file")

// ErrIntegrityRequired indicates the integrity confirmation was not given.
var ErrIntegrityRequired = errors.New("integrity confirmation is required")

// ErrAssignmentNotOpen indicates a submission against a non-published assignment.
var ErrAssignmentNotOpen = errors.New("assignment is not open for submissions")

// ErrLateNotAllowed indicates the deadline passed and late submission is disabled.
var ErrLateNotAllowed = errors.New("assignment does not accept late submissions")

// ErrAttemptsExhausted indicates the student used up the attempt limit.
var ErrAttemptsExhausted = errors.New("maximum submission attempts reached")

// ErrNotSubmissionViewer indicates the caller may not read the submission.
var ErrNotSubmissionViewer = errors.New("submission belongs to another student")

// SubmissionService orchestrates submission workflows.
type SubmissionService interface {
	Submit(ctx context.Context, student models.User, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, viewer models.User, id string) (dto.SubmissionResponse, error)
	List(ctx context.Context, viewer models.User, filter dto.SubmissionListRequest) (utils.PaginatedData, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit creates the student's submission for an assignment or, when one
// already exists, appends the next attempt and overwrites the current content.
func (s *submissionService) Submit(ctx context.Context, student models.User, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if !student.IsStudent() {
		return dto.SubmissionResponse{}, ErrStudentsOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if strings.TrimSpace(payload.TextContent) == "" && strings.TrimSpace(payload.FileURL) == "" {
		return dto.SubmissionResponse{}, ErrContentRequired
	}
	if !payload.ConfirmIntegrity {
		return dto.SubmissionResponse{}, ErrIntegrityRequired
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if !assignment.IsPublished() {
		return dto.SubmissionResponse{}, ErrAssignmentNotOpen
	}

	now := s.now()
	status := models.SubmissionStatusSubmitted
	if Overdue(now, assignment.DueDate) {
		if !assignment.AllowLateSubmission {
			return dto.SubmissionResponse{}, ErrLateNotAllowed
		}
		status = models.SubmissionStatusLate
	}

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.firstAttempt(ctx, assignment, student, payload, status, now)
	case err != nil:
		return dto.SubmissionResponse{}, err
	default:
		return s.nextAttempt(ctx, assignment, submission, payload, status, now)
	}
}

func (s *submissionService) firstAttempt(ctx context.Context, assignment models.Assignment, student models.User, payload dto.SubmissionCreateRequest, status string, now time.Time) (dto.SubmissionResponse, error) {
	submission := models.Submission{
		ID:                 uuid.NewString(),
		AssignmentID:       assignment.ID,
		StudentID:          student.ID,
		TextContent:        payload.TextContent,
		FileURL:            payload.FileURL,
		Status:             status,
		CurrentAttempt:     1,
		IntegrityConfirmed: true,
		SubmittedAt:        now.UTC(),
		Attempts: []models.SubmissionAttempt{{
			AttemptNumber: 1,
			SubmittedAt:   now.UTC(),
			TextContent:   payload.TextContent,
			FileURL:       payload.FileURL,
		}},
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Str("submission_id", submission.ID).Str("assignment_id", assignment.ID).Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) nextAttempt(ctx context.Context, assignment models.Assignment, submission models.Submission, payload dto.SubmissionCreateRequest, status string, now time.Time) (dto.SubmissionResponse, error) {
	if submission.CurrentAttempt >= assignment.MaxAttempts {
		return dto.SubmissionResponse{}, ErrAttemptsExhausted
	}

	submission.CurrentAttempt++
	submission.TextContent = payload.TextContent
	submission.FileURL = payload.FileURL
	submission.Status = status
	submission.IntegrityConfirmed = true
	submission.SubmittedAt = now.UTC()
	submission.Attempts = append(submission.Attempts, models.SubmissionAttempt{
		AttemptNumber: submission.CurrentAttempt,
		SubmittedAt:   now.UTC(),
		TextContent:   payload.TextContent,
		FileURL:       payload.FileURL,
	})

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Str("submission_id", submission.ID).Int("attempt", submission.CurrentAttempt).Msg("submission re-attempted")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, viewer models.User, id string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if viewer.IsTeacher() {
		assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return dto.SubmissionResponse{}, ErrSubmissionNotFound
			}
			return dto.SubmissionResponse{}, err
		}
		if !assignment.OwnedBy(viewer.ID) {
			return dto.SubmissionResponse{}, ErrNotAssignmentOwner
		}
	} else if !submission.OwnedBy(viewer.ID) {
		return dto.SubmissionResponse{}, ErrNotSubmissionViewer
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, viewer models.User, filter dto.SubmissionListRequest) (utils.PaginatedData, error) {
	if err := s.validator.Struct(filter); err != nil {
		return utils.PaginatedData{}, err
	}

	var submissions []models.Submission
	var err error

	if viewer.IsTeacher() {
		assignments, listErr := s.assignments.ListByTeacher(ctx, viewer.ID)
		if listErr != nil {
			return utils.PaginatedData{}, listErr
		}
		ids := make([]string, 0, len(assignments))
		for _, assignment := range assignments {
			ids = append(ids, assignment.ID)
		}
		submissions, err = s.submissions.ListByAssignments(ctx, ids)
	} else {
		submissions, err = s.submissions.ListByStudent(ctx, viewer.ID)
	}
	if err != nil {
		return utils.PaginatedData{}, err
	}

	submissions = filterSubmissions(submissions, filter)

	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	page := utils.ClampPage(filter.Page, filter.Limit)
	return utils.Paginate(dto.NewSubmissionResponseSlice(submissions), page), nil
}

func filterSubmissions(submissions []models.Submission, filter dto.SubmissionListRequest) []models.Submission {
	filtered := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if filter.AssignmentID != "" && submission.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.Status != "" && submission.Status != filter.Status {
			continue
		}
		filtered = append(filtered, submission)
	}
	return filtered
}
