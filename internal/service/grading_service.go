package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// ErrGradeNotFound indicates the requested grade does not exist.
var ErrGradeNotFound = errors.New("grade not found")

// ErrGradeExists indicates the submission already references a grade.
var ErrGradeExists = errors.New("submission already has a grade")

// ErrGradeFinalized indicates a mutation against an already-finalized grade.
var ErrGradeFinalized = errors.New("grade is already finalized")

// ErrGradeNotVisible indicates a student read against a draft grade.
var ErrGradeNotVisible = errors.New("grade has not been published")

// ErrNotGradeTeacher indicates the grade belongs to another teacher.
var ErrNotGradeTeacher = errors.New("grade is owned by another teacher")

const gradingTracer = "github.com/noah-isme/aula-go-api/internal/service/grading"

// GradingService encapsulates grade creation, revision and publishing.
type GradingService interface {
	Create(ctx context.Context, teacher models.User, payload dto.GradeCreateRequest) (dto.GradeResponse, error)
	Update(ctx context.Context, teacher models.User, gradeID string, payload dto.GradeUpdateRequest) (dto.GradeResponse, error)
	Publish(ctx context.Context, teacher models.User, gradeID string) (dto.GradeResponse, error)
	Get(ctx context.Context, viewer models.User, gradeID string) (dto.GradeResponse, error)
	GetForSubmission(ctx context.Context, viewer models.User, submissionID string) (dto.GradeResponse, error)
}

type gradingService struct {
	grades      repository.GradeRepository
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(grades repository.GradeRepository, submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		grades:      grades,
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// Create is a one-shot operation: a submission that already references a
// grade yields a conflict, revision goes through Update instead.
func (s *gradingService) Create(ctx context.Context, teacher models.User, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	tracer := otel.Tracer(gradingTracer)
	ctx, span := tracer.Start(ctx, "grading.create")
	span.SetAttributes(attribute.String("grading.teacher_id", teacher.ID))
	defer span.End()

	if !teacher.IsTeacher() {
		return dto.GradeResponse{}, ErrTeachersOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.GradeResponse{}, ErrSubmissionNotFound
		}
		return dto.GradeResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.GradeResponse{}, ErrAssignmentNotFound
		}
		return dto.GradeResponse{}, err
	}
	if !assignment.OwnedBy(teacher.ID) {
		return dto.GradeResponse{}, ErrNotAssignmentOwner
	}

	if submission.HasGrade() {
		span.SetStatus(codes.Error, "grade_exists")
		return dto.GradeResponse{}, ErrGradeExists
	}

	grade := models.Grade{
		ID:           uuid.NewString(),
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		StudentID:    submission.StudentID,
		TeacherID:    teacher.ID,
		Status:       models.GradeStatusDraft,
		GradedAt:     s.now().UTC(),
	}
	applyScores(&grade, payload.Score, payload.LetterGrade, payload.RubricScores)

	if err := s.grades.Create(ctx, &grade); err != nil {
		return dto.GradeResponse{}, err
	}

	// Guarded back-reference: loses the race if a concurrent grader got there
	// first, keeping the submission pointing at exactly one grade.
	if err := s.submissions.SetGradeRef(ctx, submission.ID, grade.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			span.SetStatus(codes.Error, "grade_exists")
			return dto.GradeResponse{}, ErrGradeExists
		}
		return dto.GradeResponse{}, err
	}

	span.SetAttributes(attribute.String("grading.grade_id", grade.ID))
	s.logger.Info().Str("grade_id", grade.ID).Str("submission_id", submission.ID).Msg("grade created")

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) Update(ctx context.Context, teacher models.User, gradeID string, payload dto.GradeUpdateRequest) (dto.GradeResponse, error) {
	tracer := otel.Tracer(gradingTracer)
	ctx, span := tracer.Start(ctx, "grading.update")
	span.SetAttributes(attribute.String("grading.grade_id", gradeID))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	grade, err := s.loadOwned(ctx, teacher, gradeID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if grade.IsFinalized() {
		span.SetStatus(codes.Error, "grade_finalized")
		return dto.GradeResponse{}, ErrGradeFinalized
	}

	letter := ""
	if payload.LetterGrade != nil {
		letter = *payload.LetterGrade
	}
	applyScores(&grade, payload.Score, letter, payload.RubricScores)
	grade.GradedAt = s.now().UTC()

	if err := s.grades.Update(ctx, &grade); err != nil {
		return dto.GradeResponse{}, err
	}

	s.logger.Info().Str("grade_id", grade.ID).Msg("grade updated")

	return dto.NewGradeResponse(grade), nil
}

// Publish transitions draft -> finalized and stamps the publish time.
func (s *gradingService) Publish(ctx context.Context, teacher models.User, gradeID string) (dto.GradeResponse, error) {
	tracer := otel.Tracer(gradingTracer)
	ctx, span := tracer.Start(ctx, "grading.publish")
	span.SetAttributes(attribute.String("grading.grade_id", gradeID))
	defer span.End()

	grade, err := s.loadOwned(ctx, teacher, gradeID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if grade.IsFinalized() {
		span.SetStatus(codes.Error, "grade_finalized")
		return dto.GradeResponse{}, ErrGradeFinalized
	}

	publishedAt := s.now().UTC()
	grade.Status = models.GradeStatusFinalized
	grade.PublishedAt = &publishedAt

	if err := s.grades.Update(ctx, &grade); err != nil {
		return dto.GradeResponse{}, err
	}

	s.logger.Info().Str("grade_id", grade.ID).Msg("grade published")

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) Get(ctx context.Context, viewer models.User, gradeID string) (dto.GradeResponse, error) {
	grade, err := s.load(ctx, gradeID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	if err := s.authorizeRead(viewer, grade); err != nil {
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) GetForSubmission(ctx context.Context, viewer models.User, submissionID string) (dto.GradeResponse, error) {
	grade, err := s.grades.GetBySubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	if err := s.authorizeRead(viewer, grade); err != nil {
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

// authorizeRead enforces grade visibility: teachers see their own grades in
// any state, students only their own finalized ones.
func (s *gradingService) authorizeRead(viewer models.User, grade models.Grade) error {
	if viewer.IsTeacher() {
		if grade.TeacherID != viewer.ID {
			return ErrNotGradeTeacher
		}
		return nil
	}

	if grade.StudentID != viewer.ID {
		return ErrGradeNotFound
	}
	if !grade.IsFinalized() {
		return ErrGradeNotVisible
	}
	return nil
}

func (s *gradingService) load(ctx context.Context, gradeID string) (models.Grade, error) {
	grade, err := s.grades.GetByID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Grade{}, ErrGradeNotFound
		}
		return models.Grade{}, err
	}
	return grade, nil
}

func (s *gradingService) loadOwned(ctx context.Context, teacher models.User, gradeID string) (models.Grade, error) {
	if !teacher.IsTeacher() {
		return models.Grade{}, ErrTeachersOnly
	}

	grade, err := s.load(ctx, gradeID)
	if err != nil {
		return models.Grade{}, err
	}
	if grade.TeacherID != teacher.ID {
		return models.Grade{}, ErrNotGradeTeacher
	}
	return grade, nil
}

// applyScores folds the supplied scores into the grade and derives the
// aggregated total and letter grade. Rubric scores take precedence: the total
// is the weighted average of scored criteria and, absent an explicit letter,
// the letter is derived from that total. With only a numeric score the letter
// derives from the score directly.
func applyScores(grade *models.Grade, score *float64, letter string, rubric []dto.RubricScorePayload) {
	if score != nil {
		grade.Score = score
	}
	if letter != "" {
		grade.LetterGrade = letter
	}
	if rubric != nil {
		grade.RubricScores = rubricScoresFromPayload(rubric)
	}

	if len(grade.RubricScores) > 0 {
		total := RubricTotal(grade.RubricScores)
		grade.Total = &total
		if letter == "" {
			grade.LetterGrade = LetterGradeForScore(float64(total))
		}
		return
	}

	if grade.Score != nil && letter == "" {
		grade.LetterGrade = LetterGradeForScore(*grade.Score)
	}
}

func rubricScoresFromPayload(payload []dto.RubricScorePayload) []models.RubricScore {
	scores := make([]models.RubricScore, 0, len(payload))
	for _, item := range payload {
		scores = append(scores, models.RubricScore{Name: item.Name, Weight: item.Weight, Score: item.Score})
	}
	return scores
}
