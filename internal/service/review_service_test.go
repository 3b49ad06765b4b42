package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
)

type reviewFixture struct {
	reviews *fakeReviewRepo
	grades  *fakeGradeRepo
	svc     *reviewService
}

func newReviewFixture(t *testing.T, gradeStatus string) reviewFixture {
	t.Helper()

	reviews := newFakeReviewRepo()
	grades := newFakeGradeRepo()

	require.NoError(t, grades.Create(context.Background(), &models.Grade{
		ID: "g1", SubmissionID: "sub-1", AssignmentID: "a1",
		StudentID: "s1", TeacherID: "t1", Status: gradeStatus,
	}))

	svc := NewReviewService(reviews, grades, testValidator(), testLogger()).(*reviewService)
	svc.now = fixedNow

	return reviewFixture{reviews: reviews, grades: grades, svc: svc}
}

func TestReviewRequestRequiresFinalizedGrade(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusDraft)

	_, err := fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "I believe the rubric was misapplied.",
	})
	require.ErrorIs(t, err, ErrGradeNotVisible)
}

func TestReviewRequestClaimsPendingSlot(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusFinalized)

	created, err := fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "I believe the rubric was misapplied.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, created.Status)

	grade, err := fx.grades.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, created.ID, grade.PendingReviewRequestID)

	_, err = fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "Second request while one is open.",
	})
	require.ErrorIs(t, err, ErrReviewPendingExists)
}

func TestReviewRequestRejectsOtherStudents(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusFinalized)

	_, err := fx.svc.Request(context.Background(), studentUser("s2"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "This is not even my grade.",
	})
	require.ErrorIs(t, err, ErrReviewNotAllowed)
}

func TestReviewRespondIsTerminal(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusFinalized)

	created, err := fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "I believe the rubric was misapplied.",
	})
	require.NoError(t, err)

	responded, err := fx.svc.Respond(context.Background(), teacherUser("t1"), created.ID, dto.ReviewRespondRequest{
		Action:   models.ReviewStatusDeclined,
		Response: "The rubric was applied as published.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusDeclined, responded.Status)
	require.Equal(t, "t1", responded.RespondedBy)
	require.NotNil(t, responded.RespondedAt)

	grade, err := fx.grades.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Empty(t, grade.PendingReviewRequestID)

	_, err = fx.svc.Respond(context.Background(), teacherUser("t1"), created.ID, dto.ReviewRespondRequest{
		Action: models.ReviewStatusAccepted,
	})
	require.ErrorIs(t, err, ErrReviewResponded)
}

func TestReviewRespondRequiresGradeOwner(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusFinalized)

	created, err := fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "I believe the rubric was misapplied.",
	})
	require.NoError(t, err)

	_, err = fx.svc.Respond(context.Background(), teacherUser("t2"), created.ID, dto.ReviewRespondRequest{
		Action: models.ReviewStatusAccepted,
	})
	require.ErrorIs(t, err, ErrNotGradeTeacher)
}

func TestReviewListScopesToViewer(t *testing.T) {
	fx := newReviewFixture(t, models.GradeStatusFinalized)

	created, err := fx.svc.Request(context.Background(), studentUser("s1"), dto.ReviewRequestCreateRequest{
		GradeID: "g1",
		Reason:  "I believe the rubric was misapplied.",
	})
	require.NoError(t, err)

	byStudent, err := fx.svc.List(context.Background(), studentUser("s1"), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, byStudent.Total)

	byTeacher, err := fx.svc.List(context.Background(), teacherUser("t1"), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, byTeacher.Total)

	stranger, err := fx.svc.List(context.Background(), studentUser("s2"), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 0, stranger.Total)

	fetched, err := fx.svc.Get(context.Background(), teacherUser("t1"), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
}
