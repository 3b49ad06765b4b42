package models

import "time"

// Feedback states.
const (
	FeedbackStatusPending          = "pending"
	FeedbackStatusReviewed         = "reviewed"
	FeedbackStatusNeedsImprovement = "needs-improvement"
)

// Feedback is free-text teacher commentary on one submission.
type Feedback struct {
	ID           string    `bson:"_id" json:"id"`
	SubmissionID string    `bson:"submissionId" json:"submission_id"`
	TeacherID    string    `bson:"teacherId" json:"teacher_id"`
	Content      string    `bson:"content" json:"content"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}
