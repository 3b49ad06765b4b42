package models

import "time"

// Grade states.
const (
	// GradeStatusDraft indicates the grade is only visible to the teacher.
	GradeStatusDraft = "draft"
	// GradeStatusFinalized indicates the grade has been published to the student.
	GradeStatusFinalized = "finalized"
)

// RubricScore is a per-submission score for one rubric criterion.
type RubricScore struct {
	Name   string `bson:"name" json:"name"`
	Weight int    `bson:"weight" json:"weight"`
	Score  *int   `bson:"score,omitempty" json:"score,omitempty"`
}

// Grade references one submission and holds its evaluation. Conceptually 1:1
// with the submission, enforced by a conditional back-reference write.
type Grade struct {
	ID                     string        `bson:"_id" json:"id"`
	SubmissionID           string        `bson:"submissionId" json:"submission_id"`
	AssignmentID           string        `bson:"assignmentId" json:"assignment_id"`
	StudentID              string        `bson:"studentId" json:"student_id"`
	TeacherID              string        `bson:"teacherId" json:"teacher_id"`
	Score                  *float64      `bson:"score,omitempty" json:"score,omitempty"`
	LetterGrade            string        `bson:"letterGrade,omitempty" json:"letter_grade,omitempty"`
	RubricScores           []RubricScore `bson:"rubricScores,omitempty" json:"rubric_scores,omitempty"`
	Total                  *int          `bson:"total,omitempty" json:"total,omitempty"`
	Status                 string        `bson:"status" json:"status"`
	PendingReviewRequestID string        `bson:"pendingReviewRequestId,omitempty" json:"pending_review_request_id,omitempty"`
	GradedAt               time.Time     `bson:"gradedAt" json:"graded_at"`
	PublishedAt            *time.Time    `bson:"publishedAt,omitempty" json:"published_at,omitempty"`
	CreatedAt              time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt              time.Time     `bson:"updatedAt" json:"updated_at"`
}

// IsFinalized reports whether the grade has been published to the student.
func (g Grade) IsFinalized() bool {
	return g.Status == GradeStatusFinalized
}

// HasPendingReview reports whether a review request is currently open.
func (g Grade) HasPendingReview() bool {
	return g.PendingReviewRequestID != ""
}
