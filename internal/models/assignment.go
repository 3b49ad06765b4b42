package models

import "time"

// Assignment lifecycle states.
const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusClosed    = "closed"
)

// Derived priority values.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Assignment difficulty levels accepted from teachers.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// RubricCriterion is a named, weighted grading dimension on an assignment.
type RubricCriterion struct {
	Name   string `bson:"name" json:"name"`
	Weight int    `bson:"weight" json:"weight"`
}

// Assignment represents a teacher-owned assignment definition.
type Assignment struct {
	ID                  string            `bson:"_id" json:"id"`
	TeacherID           string            `bson:"teacherId" json:"teacher_id"`
	Title               string            `bson:"title" json:"title"`
	Description         string            `bson:"description" json:"description"`
	DueDate             time.Time         `bson:"dueDate" json:"due_date"`
	Status              string            `bson:"status" json:"status"`
	Priority            string            `bson:"priority" json:"priority"`
	Difficulty          string            `bson:"difficulty" json:"difficulty"`
	AllowLateSubmission bool              `bson:"allowLateSubmission" json:"allow_late_submission"`
	MaxAttempts         int               `bson:"maxAttempts" json:"max_attempts"`
	Rubric              []RubricCriterion `bson:"rubric,omitempty" json:"rubric,omitempty"`
	AttachmentURL       string            `bson:"attachmentUrl,omitempty" json:"attachment_url,omitempty"`
	PublishedAt         *time.Time        `bson:"publishedAt,omitempty" json:"published_at,omitempty"`
	CreatedAt           time.Time         `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updatedAt" json:"updated_at"`
}

// IsPublished reports whether students may currently submit against the assignment.
func (a Assignment) IsPublished() bool {
	return a.Status == AssignmentStatusPublished
}

// OwnedBy reports whether the given teacher owns the assignment.
func (a Assignment) OwnedBy(teacherID string) bool {
	return a.TeacherID == teacherID
}
