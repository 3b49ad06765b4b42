package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// ErrUserRecordMissing indicates a valid credential with no profile document.
var ErrUserRecordMissing = errors.New("user record missing")

// ErrUserExists indicates a profile already exists for the subject.
var ErrUserExists = errors.New("user already registered")

// ErrUserNotFound indicates the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrNotTeacher indicates the referenced user does not hold the teacher role.
var ErrNotTeacher = errors.New("user is not a teacher")

// ErrStudentsOnly indicates an operation reserved for students.
var ErrStudentsOnly = errors.New("operation is restricted to students")

// AuthService exposes registration, profile and enrollment use cases. It also
// acts as the identity resolver: handlers exchange a verified subject ID for
// the backing profile document.
type AuthService interface {
	Resolve(ctx context.Context, subjectID string) (models.User, error)
	Register(ctx context.Context, subjectID string, payload dto.RegisterRequest) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, subjectID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	Enroll(ctx context.Context, subjectID, teacherID string) (dto.UserResponse, error)
	Unenroll(ctx context.Context, subjectID, teacherID string) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// Resolve loads the profile document for a verified subject. A valid
// credential without a profile yields ErrUserRecordMissing.
func (s *authService) Resolve(ctx context.Context, subjectID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrUserRecordMissing
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, subjectID string, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		ID:    subjectID,
		Name:  payload.Name,
		Email: payload.Email,
		Role:  payload.Role,
	}
	if user.Role == models.RoleStudent {
		user.EnrolledTeachers = []string{}
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.UserResponse{}, ErrUserExists
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, subjectID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.Resolve(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.Name != nil {
		user.Name = *payload.Name
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")

	return dto.NewUserResponse(user), nil
}

func (s *authService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	teachers, err := s.users.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(teachers), nil
}

func (s *authService) Enroll(ctx context.Context, subjectID, teacherID string) (dto.UserResponse, error) {
	student, err := s.Resolve(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if !student.IsStudent() {
		return dto.UserResponse{}, ErrStudentsOnly
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if !teacher.IsTeacher() {
		return dto.UserResponse{}, ErrNotTeacher
	}

	if err := s.users.AddEnrolledTeacher(ctx, student.ID, teacher.ID); err != nil {
		return dto.UserResponse{}, err
	}

	updated, err := s.Resolve(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Str("teacher_id", teacher.ID).Msg("student enrolled")

	return dto.NewUserResponse(updated), nil
}

func (s *authService) Unenroll(ctx context.Context, subjectID, teacherID string) (dto.UserResponse, error) {
	student, err := s.Resolve(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if !student.IsStudent() {
		return dto.UserResponse{}, ErrStudentsOnly
	}

	if err := s.users.RemoveEnrolledTeacher(ctx, student.ID, teacherID); err != nil {
		return dto.UserResponse{}, err
	}

	updated, err := s.Resolve(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Str("teacher_id", teacherID).Msg("student unenrolled")

	return dto.NewUserResponse(updated), nil
}
