package models

import "time"

// User roles recognised by the API.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is the profile document backing an authenticated subject.
type User struct {
	ID               string    `bson:"_id" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Role             string    `bson:"role" json:"role"`
	EnrolledTeachers []string  `bson:"enrolledTeachers,omitempty" json:"enrolled_teachers,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updated_at"`
}

// IsTeacher reports whether the user holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent reports whether the user holds the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// EnrolledWith reports whether the student has opted into the given teacher.
func (u User) EnrolledWith(teacherID string) bool {
	for _, id := range u.EnrolledTeachers {
		if id == teacherID {
			return true
		}
	}
	return false
}
