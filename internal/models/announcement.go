package models

import "time"

// Announcement scopes.
const (
	AnnouncementScopeGlobal     = "global"
	AnnouncementScopeAssignment = "assignment"
)

// Announcement is a teacher-authored notice, either global or scoped to one
// assignment.
type Announcement struct {
	ID           string    `bson:"_id" json:"id"`
	TeacherID    string    `bson:"teacherId" json:"teacher_id"`
	Scope        string    `bson:"scope" json:"scope"`
	AssignmentID string    `bson:"assignmentId,omitempty" json:"assignment_id,omitempty"`
	Title        string    `bson:"title" json:"title"`
	Body         string    `bson:"body" json:"body"`
	IsPinned     bool      `bson:"isPinned" json:"is_pinned"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}

// AnnouncementDismissal marks an announcement as dismissed for one user.
// The ID is the composite "<userID>:<announcementID>" so a repeat dismissal
// upserts the same document.
type AnnouncementDismissal struct {
	ID             string    `bson:"_id" json:"id"`
	UserID         string    `bson:"userId" json:"user_id"`
	AnnouncementID string    `bson:"announcementId" json:"announcement_id"`
	DismissedAt    time.Time `bson:"dismissedAt" json:"dismissed_at"`
}
