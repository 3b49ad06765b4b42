package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting work. The same
// endpoint serves first submissions and re-submissions.
type SubmissionCreateRequest struct {
	AssignmentID     string `json:"assignment_id" validate:"required"`
	TextContent      string `json:"text_content"`
	FileURL          string `json:"file_url"`
	ConfirmIntegrity bool   `json:"confirm_integrity"`
}

// SubmissionListRequest captures listing filters and pagination.
type SubmissionListRequest struct {
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	AssignmentID string `json:"assignment_id"`
	Status       string `json:"status" validate:"omitempty,oneof=submitted late"`
}

// SubmissionResponse is the serialized representation returned to API clients.
type SubmissionResponse struct {
	ID                 string                     `json:"id"`
	AssignmentID       string                     `json:"assignment_id"`
	StudentID          string                     `json:"student_id"`
	TextContent        string                     `json:"text_content,omitempty"`
	FileURL            string                     `json:"file_url,omitempty"`
	Status             string                     `json:"status"`
	CurrentAttempt     int                        `json:"current_attempt"`
	Attempts           []models.SubmissionAttempt `json:"attempts"`
	IntegrityConfirmed bool                       `json:"integrity_confirmed"`
	GradeID            string                     `json:"grade_id,omitempty"`
	FeedbackID         string                     `json:"feedback_id,omitempty"`
	SubmittedAt        time.Time                  `json:"submitted_at"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                 model.ID,
		AssignmentID:       model.AssignmentID,
		StudentID:          model.StudentID,
		TextContent:        model.TextContent,
		FileURL:            model.FileURL,
		Status:             model.Status,
		CurrentAttempt:     model.CurrentAttempt,
		Attempts:           model.Attempts,
		IntegrityConfirmed: model.IntegrityConfirmed,
		GradeID:            model.GradeID,
		FeedbackID:         model.FeedbackID,
		SubmittedAt:        model.SubmittedAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
