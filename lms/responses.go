package lms

import "time"

type GetCategories struct {
	GetCategories []*CategoryFields `json:"getCategories"`
}

type GetCategoryVariables struct {
	GetCategoryID string `json:"getCategoryId"`
}

func (v GetCategoryVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"getCategoryId": v.GetCategoryID,
	}
}

type GetCategory struct {
	GetCategory *CategoryFields `json:"getCategory"`
}

type GetCoursesVariables struct {
	CategoryID *string `json:"categoryId"`
}

func (v GetCoursesVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"categoryId": v.CategoryID,
	}
}

type GetCourses struct {
	GetCourses []*CourseFields `json:"getCourses"`
}

type GetCourseVariables struct {
	GetCourseID string `json:"getCourseId"`
}

func (v GetCourseVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"getCourseId": v.GetCourseID,
	}
}

type GetCourse struct {
	GetCourse *CourseFields `json:"getCourse"`
}

type SearchUsersVariables struct {
	Filter UserFilter `json:"filter"`
}

func (v SearchUsersVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"filter": v.Filter,
	}
}

type SearchUsers struct {
	SearchUsers []*UserFields `json:"searchUsers"`
}

type Me struct {
	Me *UserFields `json:"me"`
}

type GetEnrollmentsVariables struct {
	CourseID string `json:"courseId"`
}

func (v GetEnrollmentsVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"courseId": v.CourseID,
	}
}

type GetEnrollments_GetEnrollments_Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type GetEnrollments_GetEnrollments struct {
	ID         string                                `json:"id"`
	EnrolledAt time.Time                             `json:"enrolledAt"`
	User       UserFields                            `json:"user"`
	Course     GetEnrollments_GetEnrollments_Course `json:"course"`
}

type GetEnrollments struct {
	GetEnrollments []*GetEnrollments_GetEnrollments `json:"getEnrollments"`
}

type CreateCategoryVariables struct {
	Input CreateCategoryInput `json:"input"`
}

func (v CreateCategoryVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"input": v.Input,
	}
}

type CreateCategory struct {
	CreateCategory CategoryFields `json:"createCategory"`
}

type UpdateCategoryVariables struct {
	UpdateCategoryID string              `json:"updateCategoryId"`
	Input            UpdateCategoryInput `json:"input"`
}

func (v UpdateCategoryVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"updateCategoryId": v.UpdateCategoryID,
		"input":            v.Input,
	}
}

type UpdateCategory struct {
	UpdateCategory CategoryFields `json:"updateCategory"`
}

type DeleteCategoryVariables struct {
	DeleteCategoryID string `json:"deleteCategoryId"`
}

func (v DeleteCategoryVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"deleteCategoryId": v.DeleteCategoryID,
	}
}

type DeleteCategory struct {
	DeleteCategory bool `json:"deleteCategory"`
}

type CreateCourseVariables struct {
	Input CreateCourseInput `json:"input"`
}

func (v CreateCourseVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"input": v.Input,
	}
}

type CreateCourse struct {
	CreateCourse CourseFields `json:"createCourse"`
}

type EnrollUsersVariables struct {
	CourseID string   `json:"courseId"`
	UserIds  []string `json:"userIds"`
}

func (v EnrollUsersVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"courseId": v.CourseID,
		"userIds":  v.UserIds,
	}
}

type EnrollUsers_EnrollUsers struct {
	ID         string     `json:"id"`
	EnrolledAt time.Time  `json:"enrolledAt"`
	User       UserFields `json:"user"`
}

type EnrollUsers struct {
	EnrollUsers []*EnrollUsers_EnrollUsers `json:"enrollUsers"`
}

type UpdateProfileVariables struct {
	Input UpdateProfileInput `json:"input"`
}

func (v UpdateProfileVariables) Map() map[string]interface{} {
	return map[string]interface{}{
		"input": v.Input,
	}
}

type OnCategoryCreated struct {
	CategoryCreated CategoryFields `json:"categoryCreated"`
}
