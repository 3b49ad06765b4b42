package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
)

type feedbackFixture struct {
	feedback    *fakeFeedbackRepo
	submissions *fakeSubmissionRepo
	svc         *feedbackService
}

func newFeedbackFixture(t *testing.T) feedbackFixture {
	t.Helper()

	feedback := newFakeFeedbackRepo()
	submissions := newFakeSubmissionRepo()
	assignments := newFakeAssignmentRepo()

	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		ID: "a1", TeacherID: "t1", Status: models.AssignmentStatusPublished, MaxAttempts: 1,
	}))
	require.NoError(t, submissions.Create(context.Background(), &models.Submission{
		ID: "sub-1", AssignmentID: "a1", StudentID: "s1", CurrentAttempt: 1,
	}))

	svc := NewFeedbackService(feedback, submissions, assignments, testValidator(), testLogger()).(*feedbackService)
	svc.now = fixedNow

	return feedbackFixture{feedback: feedback, submissions: submissions, svc: svc}
}

func TestFeedbackCreateSetsBackReference(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "Solid work, but the benchmark section needs more samples.",
	})
	require.NoError(t, err)
	require.Equal(t, models.FeedbackStatusPending, created.Status)

	submission, err := fx.submissions.GetByID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, submission.FeedbackID)
}

func TestFeedbackCreateIsOneShot(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "First round of comments.",
	})
	require.NoError(t, err)

	_, err = fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "Second round of comments.",
	})
	require.ErrorIs(t, err, ErrFeedbackExists)
}

func TestFeedbackCreateSanitizesContent(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      `<p>Well done.</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Contains(t, created.Content, "Well done.")
	require.NotContains(t, created.Content, "<script>")
	require.NotContains(t, created.Content, "alert")
}

func TestFeedbackCreateRequiresAssignmentOwnership(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Create(context.Background(), teacherUser("t2"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "Comments from the wrong teacher.",
	})
	require.ErrorIs(t, err, ErrNotAssignmentOwner)
}

func TestFeedbackUpdateRequiresAuthor(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "First round of comments.",
	})
	require.NoError(t, err)

	content := "Revised comments."
	_, err = fx.svc.Update(context.Background(), teacherUser("t2"), created.ID, dto.FeedbackUpdateRequest{Content: &content})
	require.ErrorIs(t, err, ErrNotFeedbackAuthor)

	status := models.FeedbackStatusReviewed
	updated, err := fx.svc.Update(context.Background(), teacherUser("t1"), created.ID, dto.FeedbackUpdateRequest{
		Content: &content,
		Status:  &status,
	})
	require.NoError(t, err)
	require.Equal(t, "Revised comments.", updated.Content)
	require.Equal(t, models.FeedbackStatusReviewed, updated.Status)
}

func TestFeedbackGetForSubmissionAccessControl(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Create(context.Background(), teacherUser("t1"), dto.FeedbackCreateRequest{
		SubmissionID: "sub-1",
		Content:      "Comments for the owner.",
	})
	require.NoError(t, err)

	_, err = fx.svc.GetForSubmission(context.Background(), studentUser("s2"), "sub-1")
	require.ErrorIs(t, err, ErrNotSubmissionViewer)

	owned, err := fx.svc.GetForSubmission(context.Background(), studentUser("s1"), "sub-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, owned.ID)
}
