package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
)

func newTestAuthService(users *fakeUserRepo) *authService {
	svc := NewAuthService(users, testValidator(), testLogger()).(*authService)
	svc.now = fixedNow
	return svc
}

func TestRegisterRejectsDuplicateSubject(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	payload := dto.RegisterRequest{
		Name:  "Dana Ellis",
		Email: "dana@example.com",
		Role:  models.RoleStudent,
	}

	created, err := svc.Register(context.Background(), "s1", payload)
	require.NoError(t, err)
	require.Equal(t, "s1", created.ID)
	require.NotNil(t, created.EnrolledTeachers)

	_, err = svc.Register(context.Background(), "s1", payload)
	require.ErrorIs(t, err, ErrUserExists)
}

func TestResolveWithoutProfile(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.Resolve(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserRecordMissing)
}

func TestEnrollRejectsNonTeacherTargets(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "s1", dto.RegisterRequest{
		Name: "Dana Ellis", Email: "dana@example.com", Role: models.RoleStudent,
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "s2", dto.RegisterRequest{
		Name: "Sam Ortiz", Email: "sam@example.com", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), "s1", "s2")
	require.ErrorIs(t, err, ErrNotTeacher)

	_, err = svc.Enroll(context.Background(), "s1", "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnrollAndUnenrollFlow(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "t1", dto.RegisterRequest{
		Name: "Prof. Reyes", Email: "reyes@example.com", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "s1", dto.RegisterRequest{
		Name: "Dana Ellis", Email: "dana@example.com", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	enrolled, err := svc.Enroll(context.Background(), "s1", "t1")
	require.NoError(t, err)
	require.Contains(t, enrolled.EnrolledTeachers, "t1")

	// Enrolling twice keeps a single entry.
	enrolled, err = svc.Enroll(context.Background(), "s1", "t1")
	require.NoError(t, err)
	require.Len(t, enrolled.EnrolledTeachers, 1)

	unenrolled, err := svc.Unenroll(context.Background(), "s1", "t1")
	require.NoError(t, err)
	require.NotContains(t, unenrolled.EnrolledTeachers, "t1")
}

func TestEnrollRejectsTeacherCallers(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "t1", dto.RegisterRequest{
		Name: "Prof. Reyes", Email: "reyes@example.com", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "t2", dto.RegisterRequest{
		Name: "Prof. Kim", Email: "kim@example.com", Role: models.RoleTeacher,
	})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), "t1", "t2")
	require.ErrorIs(t, err, ErrStudentsOnly)
}

func TestListTeachersReturnsOnlyTeachers(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	for _, u := range []dto.RegisterRequest{
		{Name: "Prof. Reyes", Email: "reyes@example.com", Role: models.RoleTeacher},
		{Name: "Dana Ellis", Email: "dana@example.com", Role: models.RoleStudent},
	} {
		_, err := svc.Register(context.Background(), u.Email, u)
		require.NoError(t, err)
	}

	teachers, err := svc.ListTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.Equal(t, models.RoleTeacher, teachers[0].Role)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "s1", dto.RegisterRequest{
		Name: "Dana Ellis", Email: "dana@example.com", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	name := "Dana M. Ellis"
	updated, err := svc.UpdateProfile(context.Background(), "s1", dto.ProfileUpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Dana M. Ellis", updated.Name)
	require.Equal(t, "dana@example.com", updated.Email)
}
