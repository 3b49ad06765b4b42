package models

import "time"

// Submission states.
const (
	// SubmissionStatusSubmitted indicates the work arrived before the deadline.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusLate indicates the work arrived past the deadline on an
	// assignment that allows late submission.
	SubmissionStatusLate = "late"
)

// SubmissionAttempt is one entry in the append-only attempt history.
type SubmissionAttempt struct {
	AttemptNumber int       `bson:"attemptNumber" json:"attempt_number"`
	SubmittedAt   time.Time `bson:"submittedAt" json:"submitted_at"`
	TextContent   string    `bson:"textContent,omitempty" json:"text_content,omitempty"`
	FileURL       string    `bson:"fileUrl,omitempty" json:"file_url,omitempty"`
}

// Submission holds a student's current work for one assignment. At most one
// document exists per (assignment, student) pair; re-submission appends to
// Attempts and overwrites the current content fields.
type Submission struct {
	ID                 string              `bson:"_id" json:"id"`
	AssignmentID       string              `bson:"assignmentId" json:"assignment_id"`
	StudentID          string              `bson:"studentId" json:"student_id"`
	TextContent        string              `bson:"textContent,omitempty" json:"text_content,omitempty"`
	FileURL            string              `bson:"fileUrl,omitempty" json:"file_url,omitempty"`
	Status             string              `bson:"status" json:"status"`
	CurrentAttempt     int                 `bson:"currentAttempt" json:"current_attempt"`
	Attempts           []SubmissionAttempt `bson:"attempts" json:"attempts"`
	IntegrityConfirmed bool                `bson:"integrityConfirmed" json:"integrity_confirmed"`
	GradeID            string              `bson:"gradeId,omitempty" json:"grade_id,omitempty"`
	FeedbackID         string              `bson:"feedbackId,omitempty" json:"feedback_id,omitempty"`
	SubmittedAt        time.Time           `bson:"submittedAt" json:"submitted_at"`
	CreatedAt          time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updated_at"`
}

// HasGrade reports whether a grade document references this submission.
func (s Submission) HasGrade() bool {
	return s.GradeID != ""
}

// HasFeedback reports whether a feedback document references this submission.
func (s Submission) HasFeedback() bool {
	return s.FeedbackID != ""
}

// OwnedBy reports whether the given student owns the submission.
func (s Submission) OwnedBy(studentID string) bool {
	return s.StudentID == studentID
}
