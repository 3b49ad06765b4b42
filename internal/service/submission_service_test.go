package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
)

func newTestSubmissionService(assignments *fakeAssignmentRepo, submissions *fakeSubmissionRepo) *submissionService {
	svc := NewSubmissionService(submissions, assignments, testValidator(), testLogger()).(*submissionService)
	svc.now = fixedNow
	return svc
}

func seedAssignment(t *testing.T, assignments *fakeAssignmentRepo, mutate func(*models.Assignment)) models.Assignment {
	t.Helper()

	assignment := models.Assignment{
		ID:          "a1",
		TeacherID:   "t1",
		Title:       "Sorting",
		Description: "Implement merge sort with benchmarks.",
		DueDate:     fixedNow().Add(48 * time.Hour),
		Status:      models.AssignmentStatusPublished,
		MaxAttempts: 2,
	}
	if mutate != nil {
		mutate(&assignment)
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))
	return assignment
}

func TestSubmitFirstAttempt(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(assignments, submissions)
	assignment := seedAssignment(t, assignments, nil)

	submission, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "my solution",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
	require.Equal(t, 1, submission.CurrentAttempt)
	require.Len(t, submission.Attempts, 1)
	require.True(t, submission.IntegrityConfirmed)
}

func TestSubmitRequiresContentAndIntegrity(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	svc := newTestSubmissionService(assignments, newFakeSubmissionRepo())
	assignment := seedAssignment(t, assignments, nil)

	_, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		ConfirmIntegrity: true,
	})
	require.ErrorIs(t, err, ErrContentRequired)

	_, err = svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		TextContent:  "my solution",
	})
	require.ErrorIs(t, err, ErrIntegrityRequired)
}

func TestSubmitAgainstDraftConflicts(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	svc := newTestSubmissionService(assignments, newFakeSubmissionRepo())
	assignment := seedAssignment(t, assignments, func(a *models.Assignment) {
		a.Status = models.AssignmentStatusDraft
	})

	_, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "my solution",
		ConfirmIntegrity: true,
	})
	require.ErrorIs(t, err, ErrAssignmentNotOpen)
}

func TestSubmitAppendsAttemptHistory(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(assignments, submissions)
	assignment := seedAssignment(t, assignments, nil)
	student := studentUser("s1")

	first, err := svc.Submit(context.Background(), student, dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "draft one",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), student, dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "draft two",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 2, second.CurrentAttempt)
	require.Len(t, second.Attempts, 2)
	require.Equal(t, "draft one", second.Attempts[0].TextContent)
	require.Equal(t, "draft two", second.TextContent)
}

func TestSubmitExhaustsAttempts(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	svc := newTestSubmissionService(assignments, newFakeSubmissionRepo())
	assignment := seedAssignment(t, assignments, func(a *models.Assignment) {
		a.MaxAttempts = 1
	})
	student := studentUser("s1")

	_, err := svc.Submit(context.Background(), student, dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "only try",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), student, dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "second try",
		ConfirmIntegrity: true,
	})
	require.ErrorIs(t, err, ErrAttemptsExhausted)
}

func TestSubmitLateGating(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	svc := newTestSubmissionService(assignments, newFakeSubmissionRepo())

	strict := seedAssignment(t, assignments, func(a *models.Assignment) {
		a.ID = "a-strict"
		a.DueDate = fixedNow().Add(-48 * time.Hour)
		a.AllowLateSubmission = false
	})
	lenient := seedAssignment(t, assignments, func(a *models.Assignment) {
		a.ID = "a-lenient"
		a.DueDate = fixedNow().Add(-48 * time.Hour)
		a.AllowLateSubmission = true
	})

	_, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     strict.ID,
		TextContent:      "too late",
		ConfirmIntegrity: true,
	})
	require.ErrorIs(t, err, ErrLateNotAllowed)

	late, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     lenient.ID,
		TextContent:      "late but accepted",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusLate, late.Status)
}

func TestSubmissionGetAccessControl(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(assignments, submissions)
	assignment := seedAssignment(t, assignments, nil)

	created, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID:     assignment.ID,
		TextContent:      "my solution",
		ConfirmIntegrity: true,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), studentUser("s2"), created.ID)
	require.ErrorIs(t, err, ErrNotSubmissionViewer)

	_, err = svc.Get(context.Background(), teacherUser("t2"), created.ID)
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	owned, err := svc.Get(context.Background(), teacherUser("t1"), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, owned.ID)
}

func TestSubmissionListForTeacherSpansOwnAssignments(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(assignments, submissions)

	mine := seedAssignment(t, assignments, nil)
	other := seedAssignment(t, assignments, func(a *models.Assignment) {
		a.ID = "a2"
		a.TeacherID = "t2"
	})

	_, err := svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID: mine.ID, TextContent: "one", ConfirmIntegrity: true,
	})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), studentUser("s1"), dto.SubmissionCreateRequest{
		AssignmentID: other.ID, TextContent: "two", ConfirmIntegrity: true,
	})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), teacherUser("t1"), dto.SubmissionListRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
}
