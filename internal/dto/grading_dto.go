package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// RubricScorePayload carries a per-criterion score for grading.
type RubricScorePayload struct {
	Name   string `json:"name" validate:"required,min=1"`
	Weight int    `json:"weight" validate:"required,min=1,max=100"`
	Score  *int   `json:"score" validate:"omitempty,min=0,max=100"`
}

// GradeCreateRequest describes the payload for grading a submission.
type GradeCreateRequest struct {
	SubmissionID string               `json:"submission_id" validate:"required"`
	Score        *float64             `json:"score" validate:"omitempty,min=0,max=100"`
	LetterGrade  string               `json:"letter_grade" validate:"omitempty,oneof=A B C D F"`
	RubricScores []RubricScorePayload `json:"rubric_scores" validate:"omitempty,dive"`
}

// GradeUpdateRequest describes the payload for revising a draft grade.
type GradeUpdateRequest struct {
	Score        *float64             `json:"score" validate:"omitempty,min=0,max=100"`
	LetterGrade  *string              `json:"letter_grade" validate:"omitempty,oneof=A B C D F"`
	RubricScores []RubricScorePayload `json:"rubric_scores" validate:"omitempty,dive"`
}

// GradeResponse is the serialized representation returned to API clients.
type GradeResponse struct {
	ID           string               `json:"id"`
	SubmissionID string               `json:"submission_id"`
	AssignmentID string               `json:"assignment_id"`
	StudentID    string               `json:"student_id"`
	TeacherID    string               `json:"teacher_id"`
	Score        *float64             `json:"score,omitempty"`
	LetterGrade  string               `json:"letter_grade,omitempty"`
	RubricScores []models.RubricScore `json:"rubric_scores,omitempty"`
	Total        *int                 `json:"total,omitempty"`
	Status       string               `json:"status"`
	GradedAt     time.Time            `json:"graded_at"`
	PublishedAt  *time.Time           `json:"published_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		TeacherID:    model.TeacherID,
		Score:        model.Score,
		LetterGrade:  model.LetterGrade,
		RubricScores: model.RubricScores,
		Total:        model.Total,
		Status:       model.Status,
		GradedAt:     model.GradedAt,
		PublishedAt:  model.PublishedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// FeedbackCreateRequest describes the payload for creating feedback.
type FeedbackCreateRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
	Content      string `json:"content" validate:"required,min=1"`
	Status       string `json:"status" validate:"omitempty,oneof=pending reviewed needs-improvement"`
}

// FeedbackUpdateRequest describes the payload for updating feedback.
type FeedbackUpdateRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
	Status  *string `json:"status" validate:"omitempty,oneof=pending reviewed needs-improvement"`
}

// FeedbackResponse is the serialized representation returned to API clients.
type FeedbackResponse struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	TeacherID    string    `json:"teacher_id"`
	Content      string    `json:"content"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewFeedbackResponse converts a model into a DTO.
func NewFeedbackResponse(model models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		TeacherID:    model.TeacherID,
		Content:      model.Content,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ReviewRequestCreateRequest describes a student's grade review request.
type ReviewRequestCreateRequest struct {
	GradeID string `json:"grade_id" validate:"required"`
	Reason  string `json:"reason" validate:"required,min=10"`
}

// ReviewRespondRequest describes the teacher's terminal response.
type ReviewRespondRequest struct {
	Action   string `json:"action" validate:"required,oneof=accepted declined"`
	Response string `json:"response" validate:"omitempty,min=1"`
}

// ReviewRequestResponse is the serialized representation returned to API clients.
type ReviewRequestResponse struct {
	ID          string     `json:"id"`
	GradeID     string     `json:"grade_id"`
	StudentID   string     `json:"student_id"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	Response    string     `json:"response,omitempty"`
	RespondedBy string     `json:"responded_by,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewReviewRequestResponse converts a model into a DTO.
func NewReviewRequestResponse(model models.GradeReviewRequest) ReviewRequestResponse {
	return ReviewRequestResponse{
		ID:          model.ID,
		GradeID:     model.GradeID,
		StudentID:   model.StudentID,
		Reason:      model.Reason,
		Status:      model.Status,
		Response:    model.Response,
		RespondedBy: model.RespondedBy,
		RespondedAt: model.RespondedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewReviewRequestResponseSlice converts a slice of models into DTOs.
func NewReviewRequestResponseSlice(requests []models.GradeReviewRequest) []ReviewRequestResponse {
	responses := make([]ReviewRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, NewReviewRequestResponse(request))
	}

	return responses
}
