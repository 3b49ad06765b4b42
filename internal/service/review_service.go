package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// ErrReviewNotFound indicates the requested review request does not exist.
var ErrReviewNotFound = errors.New("review request not found")

// ErrReviewPendingExists indicates the grade already has an open review request.
var ErrReviewPendingExists = errors.New("grade already has a pending review request")

// ErrReviewResponded indicates a response against an already-closed request.
var ErrReviewResponded = errors.New("review request has already been responded to")

// ErrReviewNotAllowed indicates the grade belongs to another student.
var ErrReviewNotAllowed = errors.New("grade belongs to another student")

// ReviewService manages the grade review request workflow: a student opens a
// request against a finalized grade, the owning teacher accepts or declines.
type ReviewService interface {
	Request(ctx context.Context, student models.User, payload dto.ReviewRequestCreateRequest) (dto.ReviewRequestResponse, error)
	Respond(ctx context.Context, teacher models.User, requestID string, payload dto.ReviewRespondRequest) (dto.ReviewRequestResponse, error)
	Get(ctx context.Context, viewer models.User, requestID string) (dto.ReviewRequestResponse, error)
	List(ctx context.Context, viewer models.User, page, limit int) (utils.PaginatedData, error)
}

type reviewService struct {
	reviews   repository.ReviewRequestRepository
	grades    repository.GradeRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReviewService constructs the review service.
func NewReviewService(reviews repository.ReviewRequestRepository, grades repository.GradeRepository, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	return &reviewService{
		reviews:   reviews,
		grades:    grades,
		validator: validate,
		logger:    logger.With().Str("component", "review_service").Logger(),
		now:       time.Now,
	}
}

// Request opens a review request against a finalized grade. The pending slot
// on the grade is claimed first: two concurrent requests race on that single
// conditional write and exactly one request document gets created.
func (s *reviewService) Request(ctx context.Context, student models.User, payload dto.ReviewRequestCreateRequest) (dto.ReviewRequestResponse, error) {
	if !student.IsStudent() {
		return dto.ReviewRequestResponse{}, ErrStudentsOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewRequestResponse{}, err
	}

	grade, err := s.grades.GetByID(ctx, payload.GradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.ReviewRequestResponse{}, ErrGradeNotFound
		}
		return dto.ReviewRequestResponse{}, err
	}
	if grade.StudentID != student.ID {
		return dto.ReviewRequestResponse{}, ErrReviewNotAllowed
	}
	if !grade.IsFinalized() {
		return dto.ReviewRequestResponse{}, ErrGradeNotVisible
	}

	requestID := uuid.NewString()
	if err := s.grades.SetPendingReview(ctx, grade.ID, requestID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return dto.ReviewRequestResponse{}, ErrReviewPendingExists
		}
		return dto.ReviewRequestResponse{}, err
	}

	request := models.GradeReviewRequest{
		ID:        requestID,
		GradeID:   grade.ID,
		StudentID: student.ID,
		Reason:    payload.Reason,
		Status:    models.ReviewStatusPending,
	}

	if err := s.reviews.Create(ctx, &request); err != nil {
		// Release the slot so the failed request does not block the grade.
		if clearErr := s.grades.ClearPendingReview(ctx, grade.ID, requestID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("grade_id", grade.ID).Msg("failed to release pending review slot")
		}
		return dto.ReviewRequestResponse{}, err
	}

	s.logger.Info().Str("request_id", request.ID).Str("grade_id", grade.ID).Msg("review requested")

	return dto.NewReviewRequestResponse(request), nil
}

// Respond closes a pending request with accepted or declined. The decision is
// terminal; responding again yields a conflict.
func (s *reviewService) Respond(ctx context.Context, teacher models.User, requestID string, payload dto.ReviewRespondRequest) (dto.ReviewRequestResponse, error) {
	if !teacher.IsTeacher() {
		return dto.ReviewRequestResponse{}, ErrTeachersOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewRequestResponse{}, err
	}

	request, err := s.reviews.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.ReviewRequestResponse{}, ErrReviewNotFound
		}
		return dto.ReviewRequestResponse{}, err
	}

	grade, err := s.grades.GetByID(ctx, request.GradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.ReviewRequestResponse{}, ErrGradeNotFound
		}
		return dto.ReviewRequestResponse{}, err
	}
	if grade.TeacherID != teacher.ID {
		return dto.ReviewRequestResponse{}, ErrNotGradeTeacher
	}

	if !request.IsPending() {
		return dto.ReviewRequestResponse{}, ErrReviewResponded
	}

	respondedAt := s.now().UTC()
	request.Status = payload.Action
	request.Response = payload.Response
	request.RespondedBy = teacher.ID
	request.RespondedAt = &respondedAt

	if err := s.reviews.Update(ctx, &request); err != nil {
		return dto.ReviewRequestResponse{}, err
	}

	if err := s.grades.ClearPendingReview(ctx, grade.ID, request.ID); err != nil && !errors.Is(err, repository.ErrConflict) {
		return dto.ReviewRequestResponse{}, err
	}

	s.logger.Info().Str("request_id", request.ID).Str("action", payload.Action).Msg("review responded")

	return dto.NewReviewRequestResponse(request), nil
}

func (s *reviewService) Get(ctx context.Context, viewer models.User, requestID string) (dto.ReviewRequestResponse, error) {
	request, err := s.reviews.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.ReviewRequestResponse{}, ErrReviewNotFound
		}
		return dto.ReviewRequestResponse{}, err
	}

	if viewer.IsTeacher() {
		grade, err := s.grades.GetByID(ctx, request.GradeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return dto.ReviewRequestResponse{}, ErrGradeNotFound
			}
			return dto.ReviewRequestResponse{}, err
		}
		if grade.TeacherID != viewer.ID {
			return dto.ReviewRequestResponse{}, ErrNotGradeTeacher
		}
	} else if request.StudentID != viewer.ID {
		return dto.ReviewRequestResponse{}, ErrReviewNotFound
	}

	return dto.NewReviewRequestResponse(request), nil
}

// List returns the caller's review requests, newest first. Teachers see
// requests against their own grades, students their own requests.
func (s *reviewService) List(ctx context.Context, viewer models.User, page, limit int) (utils.PaginatedData, error) {
	var requests []models.GradeReviewRequest
	var err error

	if viewer.IsTeacher() {
		grades, gradesErr := s.grades.ListByTeacher(ctx, viewer.ID)
		if gradesErr != nil {
			return utils.PaginatedData{}, gradesErr
		}
		ids := make([]string, 0, len(grades))
		for _, grade := range grades {
			ids = append(ids, grade.ID)
		}
		requests, err = s.reviews.ListByGrades(ctx, ids)
	} else {
		requests, err = s.reviews.ListByStudent(ctx, viewer.ID)
	}
	if err != nil {
		return utils.PaginatedData{}, err
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	pageReq := utils.ClampPage(page, limit)
	return utils.Paginate(dto.NewReviewRequestResponseSlice(requests), pageReq), nil
}
