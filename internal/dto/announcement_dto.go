package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// AnnouncementCreateRequest describes the payload for creating an announcement.
type AnnouncementCreateRequest struct {
	Scope        string `json:"scope" validate:"required,oneof=global assignment"`
	AssignmentID string `json:"assignment_id" validate:"required_if=Scope assignment"`
	Title        string `json:"title" validate:"required,min=3"`
	Body         string `json:"body" validate:"required,min=1"`
	IsPinned     bool   `json:"is_pinned"`
}

// AnnouncementUpdateRequest describes the payload for updating an announcement.
type AnnouncementUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3"`
	Body     *string `json:"body" validate:"omitempty,min=1"`
	IsPinned *bool   `json:"is_pinned"`
}

// AnnouncementResponse is the serialized representation returned to API clients.
type AnnouncementResponse struct {
	ID           string    `json:"id"`
	TeacherID    string    `json:"teacher_id"`
	Scope        string    `json:"scope"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	IsPinned     bool      `json:"is_pinned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAnnouncementResponse converts a model into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:           model.ID,
		TeacherID:    model.TeacherID,
		Scope:        model.Scope,
		AssignmentID: model.AssignmentID,
		Title:        model.Title,
		Body:         model.Body,
		IsPinned:     model.IsPinned,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewAnnouncementResponseSlice converts a slice of models into DTOs.
func NewAnnouncementResponseSlice(announcements []models.Announcement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		responses = append(responses, NewAnnouncementResponse(announcement))
	}

	return responses
}
