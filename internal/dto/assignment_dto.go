package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// RubricCriterionPayload describes one weighted rubric dimension.
type RubricCriterionPayload struct {
	Name   string `json:"name" validate:"required,min=1"`
	Weight int    `json:"weight" validate:"required,min=1,max=100"`
}

// AssignmentCreateRequest describes the payload for creating a new assignment.
// Priority is always derived from the due date and never accepted here.
type AssignmentCreateRequest struct {
	Title               string                   `json:"title" validate:"required,min=3"`
	Description         string                   `json:"description" validate:"required,min=10"`
	DueDate             string                   `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Difficulty          string                   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	AllowLateSubmission bool                     `json:"allow_late_submission"`
	MaxAttempts         int                      `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	Rubric              []RubricCriterionPayload `json:"rubric" validate:"omitempty,dive"`
	AttachmentURL       string                   `json:"attachment_url" validate:"omitempty,url"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title               *string                  `json:"title" validate:"omitempty,min=3"`
	Description         *string                  `json:"description" validate:"omitempty,min=10"`
	DueDate             *string                  `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Difficulty          *string                  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	AllowLateSubmission *bool                    `json:"allow_late_submission"`
	MaxAttempts         *int                     `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	Rubric              []RubricCriterionPayload `json:"rubric" validate:"omitempty,dive"`
	AttachmentURL       *string                  `json:"attachment_url" validate:"omitempty,url"`
}

// AssignmentListRequest captures listing filters and pagination.
type AssignmentListRequest struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Status     string `json:"status" validate:"omitempty,oneof=draft published closed"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Search     string `json:"search"`
	Sort       string `json:"sort"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID                  string                   `json:"id"`
	TeacherID           string                   `json:"teacher_id"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	DueDate             time.Time                `json:"due_date"`
	Status              string                   `json:"status"`
	Priority            string                   `json:"priority"`
	Difficulty          string                   `json:"difficulty"`
	AllowLateSubmission bool                     `json:"allow_late_submission"`
	MaxAttempts         int                      `json:"max_attempts"`
	Rubric              []models.RubricCriterion `json:"rubric,omitempty"`
	AttachmentURL       string                   `json:"attachment_url,omitempty"`
	PublishedAt         *time.Time               `json:"published_at,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                  model.ID,
		TeacherID:           model.TeacherID,
		Title:               model.Title,
		Description:         model.Description,
		DueDate:             model.DueDate,
		Status:              model.Status,
		Priority:            model.Priority,
		Difficulty:          model.Difficulty,
		AllowLateSubmission: model.AllowLateSubmission,
		MaxAttempts:         model.MaxAttempts,
		Rubric:              model.Rubric,
		AttachmentURL:       model.AttachmentURL,
		PublishedAt:         model.PublishedAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
