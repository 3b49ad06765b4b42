package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// RegisterRequest describes the payload for first-time registration.
type RegisterRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=student teacher"`
}

// ProfileUpdateRequest describes the payload for profile updates.
type ProfileUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserResponse is the serialized representation of a user profile.
type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	EnrolledTeachers []string  `json:"enrolled_teachers,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:               model.ID,
		Name:             model.Name,
		Email:            model.Email,
		Role:             model.Role,
		EnrolledTeachers: model.EnrolledTeachers,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
