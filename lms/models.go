package lms

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

var AllRole = []Role{
	RoleAdmin,
	RoleInstructor,
	RoleStudent,
}

func (e Role) IsValid() bool {
	switch e {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

func (e Role) String() string {
	return string(e)
}

func (e *Role) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = Role(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid Role", str)
	}
	return nil
}

func (e Role) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateCourseInput struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	CategoryID    string   `json:"categoryId"`
	InstructorIds []string `json:"instructorIds"`
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

type UserFilter struct {
	Search     *string  `json:"search"`
	Role       *Role    `json:"role"`
	ExcludeIds []string `json:"excludeIds"`
	Limit      *int     `json:"limit"`
}

type CategoryFields struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	CoursesCount int       `json:"coursesCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserFields struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
	Role      Role    `json:"role"`
}

type CourseFields struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Published     bool            `json:"published"`
	EnrolledCount int             `json:"enrolledCount"`
	Category      *CategoryFields `json:"category"`
	Instructors   []*UserFields   `json:"instructors"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
