package models

import "time"

// Grade review request states. Pending is the only non-terminal state.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusAccepted = "accepted"
	ReviewStatusDeclined = "declined"
)

// GradeReviewRequest is a student's request to have a finalized grade
// re-examined. At most one pending request exists per grade, enforced via the
// pendingReviewRequestId pointer on the Grade document.
type GradeReviewRequest struct {
	ID          string     `bson:"_id" json:"id"`
	GradeID     string     `bson:"gradeId" json:"grade_id"`
	StudentID   string     `bson:"studentId" json:"student_id"`
	Reason      string     `bson:"reason" json:"reason"`
	Status      string     `bson:"status" json:"status"`
	Response    string     `bson:"response,omitempty" json:"response,omitempty"`
	RespondedBy string     `bson:"respondedBy,omitempty" json:"responded_by,omitempty"`
	RespondedAt *time.Time `bson:"respondedAt,omitempty" json:"responded_at,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updated_at"`
}

// IsPending reports whether the request still awaits a teacher response.
func (r GradeReviewRequest) IsPending() bool {
	return r.Status == ReviewStatusPending
}
