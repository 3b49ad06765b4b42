package service

import (
	"context"
	"errors"
	"fmt"
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

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrNotAssignmentOwner indicates the caller does not own the assignment.
var ErrNotAssignmentOwner = errors.New("assignment is owned by another teacher")

// ErrAssignmentClosed indicates an edit against a closed assignment.
var ErrAssignmentClosed = errors.New("assignment is closed")

// ErrTeachersOnly indicates an operation reserved for teachers.
var ErrTeachersOnly = errors.New("operation is restricted to teachers")

// defaultMaxAttempts applies when a teacher does not set an attempt limit.
const defaultMaxAttempts = 1

// AssignmentService exposes assignment domain use cases.
type AssignmentService interface {
	List(ctx context.Context, viewer models.User, filter dto.AssignmentListRequest) (utils.PaginatedData, error)
	Get(ctx context.Context, viewer models.User, id string) (dto.AssignmentResponse, error)
	Create(ctx context.Context, teacher models.User, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacher models.User, id string, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Publish(ctx context.Context, teacher models.User, id string) (dto.AssignmentResponse, error)
	Close(ctx context.Context, teacher models.User, id string) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacher models.User, id string) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context, viewer models.User, filter dto.AssignmentListRequest) (utils.PaginatedData, error) {
	if err := s.validator.Struct(filter); err != nil {
		return utils.PaginatedData{}, err
	}

	var assignments []models.Assignment
	var err error

	if viewer.IsTeacher() {
		assignments, err = s.assignments.ListByTeacher(ctx, viewer.ID)
	} else if len(viewer.EnrolledTeachers) > 0 {
		assignments, err = s.assignments.ListPublishedByTeachers(ctx, viewer.EnrolledTeachers)
	} else {
		assignments, err = s.assignments.ListPublished(ctx)
	}
	if err != nil {
		return utils.PaginatedData{}, err
	}

	assignments = filterAssignments(assignments, filter)
	sortAssignments(assignments, filter.Sort)

	page := utils.ClampPage(filter.Page, filter.Limit)
	return utils.Paginate(dto.NewAssignmentResponseSlice(assignments), page), nil
}

func (s *assignmentService) Get(ctx context.Context, viewer models.User, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if viewer.IsTeacher() {
		if !assignment.OwnedBy(viewer.ID) {
			return dto.AssignmentResponse{}, ErrNotAssignmentOwner
		}
	} else if !assignment.IsPublished() {
		return dto.AssignmentResponse{}, ErrAssignmentNotFound
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, teacher models.User, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if !teacher.IsTeacher() {
		return dto.AssignmentResponse{}, ErrTeachersOnly
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	maxAttempts := payload.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	assignment := models.Assignment{
		ID:                  uuid.NewString(),
		TeacherID:           teacher.ID,
		Title:               payload.Title,
		Description:         payload.Description,
		DueDate:             dueDate,
		Status:              models.AssignmentStatusDraft,
		Priority:            PriorityForDueDate(s.now(), dueDate),
		Difficulty:          payload.Difficulty,
		AllowLateSubmission: payload.AllowLateSubmission,
		MaxAttempts:         maxAttempts,
		Rubric:              rubricFromPayload(payload.Rubric),
		AttachmentURL:       payload.AttachmentURL,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Str("teacher_id", teacher.ID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, teacher models.User, id string, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadOwned(ctx, teacher, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if assignment.Status == models.AssignmentStatusClosed {
		return dto.AssignmentResponse{}, ErrAssignmentClosed
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		assignment.DueDate = dueDate
		assignment.Priority = PriorityForDueDate(s.now(), dueDate)
	}
	if payload.Difficulty != nil {
		assignment.Difficulty = *payload.Difficulty
	}
	if payload.AllowLateSubmission != nil {
		assignment.AllowLateSubmission = *payload.AllowLateSubmission
	}
	if payload.MaxAttempts != nil {
		assignment.MaxAttempts = *payload.MaxAttempts
	}
	if payload.Rubric != nil {
		assignment.Rubric = rubricFromPayload(payload.Rubric)
	}
	if payload.AttachmentURL != nil {
		assignment.AttachmentURL = *payload.AttachmentURL
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Publish(ctx context.Context, teacher models.User, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.loadOwned(ctx, teacher, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if assignment.Status == models.AssignmentStatusClosed {
		return dto.AssignmentResponse{}, ErrAssignmentClosed
	}

	if !assignment.IsPublished() {
		publishedAt := s.now().UTC()
		assignment.Status = models.AssignmentStatusPublished
		assignment.PublishedAt = &publishedAt
		if err := s.assignments.Update(ctx, &assignment); err != nil {
			return dto.AssignmentResponse{}, err
		}
		s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment published")
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Close(ctx context.Context, teacher models.User, id string) (dto.AssignmentResponse, error) {
	assignment, err := s.loadOwned(ctx, teacher, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment.Status = models.AssignmentStatusClosed
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment closed")

	return dto.NewAssignmentResponse(assignment), nil
}

// Delete removes the assignment and cascades over its submissions. The
// cascade is best-effort: a failure after the assignment delete is logged and
// surfaced, but nothing is rolled back.
func (s *assignmentService) Delete(ctx context.Context, teacher models.User, id string) error {
	assignment, err := s.loadOwned(ctx, teacher, id)
	if err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, assignment.ID); err != nil {
		return err
	}

	deleted, err := s.submissions.DeleteByAssignment(ctx, assignment.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("assignment_id", assignment.ID).Msg("submission cascade failed")
		return err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Int64("submissions_deleted", deleted).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) load(ctx context.Context, id string) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (s *assignmentService) loadOwned(ctx context.Context, teacher models.User, id string) (models.Assignment, error) {
	if !teacher.IsTeacher() {
		return models.Assignment{}, ErrTeachersOnly
	}

	assignment, err := s.load(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if !assignment.OwnedBy(teacher.ID) {
		return models.Assignment{}, ErrNotAssignmentOwner
	}
	return assignment, nil
}

func rubricFromPayload(payload []dto.RubricCriterionPayload) []models.RubricCriterion {
	if len(payload) == 0 {
		return nil
	}

	rubric := make([]models.RubricCriterion, 0, len(payload))
	for _, criterion := range payload {
		rubric = append(rubric, models.RubricCriterion{Name: criterion.Name, Weight: criterion.Weight})
	}
	return rubric
}

func filterAssignments(assignments []models.Assignment, filter dto.AssignmentListRequest) []models.Assignment {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	filtered := make([]models.Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		if filter.Status != "" && assignment.Status != filter.Status {
			continue
		}
		if filter.Difficulty != "" && assignment.Difficulty != filter.Difficulty {
			continue
		}
		if search != "" {
			title := strings.ToLower(assignment.Title)
			description := strings.ToLower(assignment.Description)
			if !strings.Contains(title, search) && !strings.Contains(description, search) {
				continue
			}
		}
		filtered = append(filtered, assignment)
	}
	return filtered
}

// sortAssignments orders the fetched set in memory; the store cannot combine
// the listing filters with an ordering clause.
func sortAssignments(assignments []models.Assignment, key string) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "-due_date", "due_date:desc":
		sort.SliceStable(assignments, func(i, j int) bool {
			return assignments[i].DueDate.After(assignments[j].DueDate)
		})
	case "title", "title:asc":
		sort.SliceStable(assignments, func(i, j int) bool {
			return assignments[i].Title < assignments[j].Title
		})
	case "-created_at", "created_at:desc":
		sort.SliceStable(assignments, func(i, j int) bool {
			return assignments[i].CreatedAt.After(assignments[j].CreatedAt)
		})
	default:
		sort.SliceStable(assignments, func(i, j int) bool {
			return assignments[i].DueDate.Before(assignments[j].DueDate)
		})
	}
}
