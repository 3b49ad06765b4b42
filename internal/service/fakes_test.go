package service

import (
	"context"
	"sort"

	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) ListTeachers(_ context.Context) ([]models.User, error) {
	var teachers []models.User
	for _, user := range r.users {
		if user.IsTeacher() {
			teachers = append(teachers, user)
		}
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

func (r *fakeUserRepo) AddEnrolledTeacher(_ context.Context, studentID, teacherID string) error {
	student, ok := r.users[studentID]
	if !ok {
		return repository.ErrNotFound
	}
	if !student.EnrolledWith(teacherID) {
		student.EnrolledTeachers = append(student.EnrolledTeachers, teacherID)
	}
	r.users[studentID] = student
	return nil
}

func (r *fakeUserRepo) RemoveEnrolledTeacher(_ context.Context, studentID, teacherID string) error {
	student, ok := r.users[studentID]
	if !ok {
		return repository.ErrNotFound
	}
	remaining := student.EnrolledTeachers[:0]
	for _, id := range student.EnrolledTeachers {
		if id != teacherID {
			remaining = append(remaining, id)
		}
	}
	student.EnrolledTeachers = remaining
	r.users[studentID] = student
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[string]models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[string]models.Assignment{}}
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string) (models.Assignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return models.Assignment{}, repository.ErrNotFound
	}
	return assignment, nil
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	if _, ok := r.assignments[assignment.ID]; ok {
		return repository.ErrDuplicate
	}
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := r.assignments[assignment.ID]; !ok {
		return repository.ErrNotFound
	}
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.Assignment, error) {
	return r.list(func(a models.Assignment) bool { return a.TeacherID == teacherID }), nil
}

func (r *fakeAssignmentRepo) ListPublished(_ context.Context) ([]models.Assignment, error) {
	return r.list(func(a models.Assignment) bool { return a.IsPublished() }), nil
}

func (r *fakeAssignmentRepo) ListPublishedByTeachers(_ context.Context, teacherIDs []string) ([]models.Assignment, error) {
	allowed := map[string]bool{}
	for _, id := range teacherIDs {
		allowed[id] = true
	}
	return r.list(func(a models.Assignment) bool { return a.IsPublished() && allowed[a.TeacherID] }), nil
}

func (r *fakeAssignmentRepo) list(keep func(models.Assignment) bool) []models.Assignment {
	var result []models.Assignment
	for _, assignment := range r.assignments {
		if keep(assignment) {
			result = append(result, assignment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakeSubmissionRepo struct {
	submissions map[string]models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[string]models.Submission{}}
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id string) (models.Submission, error) {
	submission, ok := r.submissions[id]
	if !ok {
		return models.Submission{}, repository.ErrNotFound
	}
	return submission, nil
}

func (r *fakeSubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID string) (models.Submission, error) {
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, repository.ErrNotFound
}

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	if _, ok := r.submissions[submission.ID]; ok {
		return repository.ErrDuplicate
	}
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := r.submissions[submission.ID]; !ok {
		return repository.ErrNotFound
	}
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) DeleteByAssignment(_ context.Context, assignmentID string) (int64, error) {
	var deleted int64
	for id, submission := range r.submissions {
		if submission.AssignmentID == assignmentID {
			delete(r.submissions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeSubmissionRepo) ListByStudent(_ context.Context, studentID string) ([]models.Submission, error) {
	return r.list(func(s models.Submission) bool { return s.StudentID == studentID }), nil
}

func (r *fakeSubmissionRepo) ListByAssignments(_ context.Context, assignmentIDs []string) ([]models.Submission, error) {
	allowed := map[string]bool{}
	for _, id := range assignmentIDs {
		allowed[id] = true
	}
	return r.list(func(s models.Submission) bool { return allowed[s.AssignmentID] }), nil
}

func (r *fakeSubmissionRepo) SetGradeRef(_ context.Context, submissionID, gradeID string) error {
	submission, ok := r.submissions[submissionID]
	if !ok || submission.GradeID != "" {
		return repository.ErrConflict
	}
	submission.GradeID = gradeID
	r.submissions[submissionID] = submission
	return nil
}

func (r *fakeSubmissionRepo) SetFeedbackRef(_ context.Context, submissionID, feedbackID string) error {
	submission, ok := r.submissions[submissionID]
	if !ok || submission.FeedbackID != "" {
		return repository.ErrConflict
	}
	submission.FeedbackID = feedbackID
	r.submissions[submissionID] = submission
	return nil
}

func (r *fakeSubmissionRepo) list(keep func(models.Submission) bool) []models.Submission {
	var result []models.Submission
	for _, submission := range r.submissions {
		if keep(submission) {
			result = append(result, submission)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakeGradeRepo struct {
	grades map[string]models.Grade
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{grades: map[string]models.Grade{}}
}

func (r *fakeGradeRepo) GetByID(_ context.Context, id string) (models.Grade, error) {
	grade, ok := r.grades[id]
	if !ok {
		return models.Grade{}, repository.ErrNotFound
	}
	return grade, nil
}

func (r *fakeGradeRepo) GetBySubmission(_ context.Context, submissionID string) (models.Grade, error) {
	for _, grade := range r.grades {
		if grade.SubmissionID == submissionID {
			return grade, nil
		}
	}
	return models.Grade{}, repository.ErrNotFound
}

func (r *fakeGradeRepo) Create(_ context.Context, grade *models.Grade) error {
	if _, ok := r.grades[grade.ID]; ok {
		return repository.ErrDuplicate
	}
	r.grades[grade.ID] = *grade
	return nil
}

func (r *fakeGradeRepo) Update(_ context.Context, grade *models.Grade) error {
	if _, ok := r.grades[grade.ID]; !ok {
		return repository.ErrNotFound
	}
	r.grades[grade.ID] = *grade
	return nil
}

func (r *fakeGradeRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.Grade, error) {
	var result []models.Grade
	for _, grade := range r.grades {
		if grade.TeacherID == teacherID {
			result = append(result, grade)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeGradeRepo) SetPendingReview(_ context.Context, gradeID, requestID string) error {
	grade, ok := r.grades[gradeID]
	if !ok || grade.PendingReviewRequestID != "" {
		return repository.ErrConflict
	}
	grade.PendingReviewRequestID = requestID
	r.grades[gradeID] = grade
	return nil
}

func (r *fakeGradeRepo) ClearPendingReview(_ context.Context, gradeID, requestID string) error {
	grade, ok := r.grades[gradeID]
	if !ok || grade.PendingReviewRequestID != requestID {
		return repository.ErrConflict
	}
	grade.PendingReviewRequestID = ""
	r.grades[gradeID] = grade
	return nil
}

type fakeFeedbackRepo struct {
	feedback map[string]models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedback: map[string]models.Feedback{}}
}

func (r *fakeFeedbackRepo) GetByID(_ context.Context, id string) (models.Feedback, error) {
	feedback, ok := r.feedback[id]
	if !ok {
		return models.Feedback{}, repository.ErrNotFound
	}
	return feedback, nil
}

func (r *fakeFeedbackRepo) GetBySubmission(_ context.Context, submissionID string) (models.Feedback, error) {
	for _, feedback := range r.feedback {
		if feedback.SubmissionID == submissionID {
			return feedback, nil
		}
	}
	return models.Feedback{}, repository.ErrNotFound
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	if _, ok := r.feedback[feedback.ID]; ok {
		return repository.ErrDuplicate
	}
	r.feedback[feedback.ID] = *feedback
	return nil
}

func (r *fakeFeedbackRepo) Update(_ context.Context, feedback *models.Feedback) error {
	if _, ok := r.feedback[feedback.ID]; !ok {
		return repository.ErrNotFound
	}
	r.feedback[feedback.ID] = *feedback
	return nil
}

type fakeReviewRepo struct {
	requests map[string]models.GradeReviewRequest
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{requests: map[string]models.GradeReviewRequest{}}
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id string) (models.GradeReviewRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return models.GradeReviewRequest{}, repository.ErrNotFound
	}
	return request, nil
}

func (r *fakeReviewRepo) Create(_ context.Context, request *models.GradeReviewRequest) error {
	if _, ok := r.requests[request.ID]; ok {
		return repository.ErrDuplicate
	}
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, request *models.GradeReviewRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return repository.ErrNotFound
	}
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeReviewRepo) ListByStudent(_ context.Context, studentID string) ([]models.GradeReviewRequest, error) {
	return r.list(func(req models.GradeReviewRequest) bool { return req.StudentID == studentID }), nil
}

func (r *fakeReviewRepo) ListByGrades(_ context.Context, gradeIDs []string) ([]models.GradeReviewRequest, error) {
	allowed := map[string]bool{}
	for _, id := range gradeIDs {
		allowed[id] = true
	}
	return r.list(func(req models.GradeReviewRequest) bool { return allowed[req.GradeID] }), nil
}

func (r *fakeReviewRepo) list(keep func(models.GradeReviewRequest) bool) []models.GradeReviewRequest {
	var result []models.GradeReviewRequest
	for _, request := range r.requests {
		if keep(request) {
			result = append(result, request)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakeAnnouncementRepo struct {
	announcements map[string]models.Announcement
	dismissed     map[string][]string
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{
		announcements: map[string]models.Announcement{},
		dismissed:     map[string][]string{},
	}
}

func (r *fakeAnnouncementRepo) GetByID(_ context.Context, id string) (models.Announcement, error) {
	announcement, ok := r.announcements[id]
	if !ok {
		return models.Announcement{}, repository.ErrNotFound
	}
	return announcement, nil
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, announcement *models.Announcement) error {
	if _, ok := r.announcements[announcement.ID]; ok {
		return repository.ErrDuplicate
	}
	r.announcements[announcement.ID] = *announcement
	return nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, announcement *models.Announcement) error {
	if _, ok := r.announcements[announcement.ID]; !ok {
		return repository.ErrNotFound
	}
	r.announcements[announcement.ID] = *announcement
	return nil
}

func (r *fakeAnnouncementRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.announcements[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.announcements, id)
	return nil
}

func (r *fakeAnnouncementRepo) ListGlobal(_ context.Context) ([]models.Announcement, error) {
	return r.list(func(a models.Announcement) bool { return a.Scope == models.AnnouncementScopeGlobal }), nil
}

func (r *fakeAnnouncementRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.Announcement, error) {
	return r.list(func(a models.Announcement) bool { return a.TeacherID == teacherID }), nil
}

func (r *fakeAnnouncementRepo) ListByAssignments(_ context.Context, assignmentIDs []string) ([]models.Announcement, error) {
	allowed := map[string]bool{}
	for _, id := range assignmentIDs {
		allowed[id] = true
	}
	return r.list(func(a models.Announcement) bool {
		return a.Scope == models.AnnouncementScopeAssignment && allowed[a.AssignmentID]
	}), nil
}

func (r *fakeAnnouncementRepo) Dismiss(_ context.Context, userID, announcementID string) error {
	for _, id := range r.dismissed[userID] {
		if id == announcementID {
			return nil
		}
	}
	r.dismissed[userID] = append(r.dismissed[userID], announcementID)
	return nil
}

func (r *fakeAnnouncementRepo) ListDismissedIDs(_ context.Context, userID string) ([]string, error) {
	return r.dismissed[userID], nil
}

func (r *fakeAnnouncementRepo) list(keep func(models.Announcement) bool) []models.Announcement {
	var result []models.Announcement
	for _, announcement := range r.announcements {
		if keep(announcement) {
			result = append(result, announcement)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
