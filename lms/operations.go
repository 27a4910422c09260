package lms

import (
	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/client/transport"
)

const categoryFieldsFragment = `fragment CategoryFields on Category {
	id
	name
	description
	coursesCount
	createdAt
	updatedAt
}
`

const userFieldsFragment = `fragment UserFields on User {
	id
	email
	firstName
	lastName
	avatarUrl
	bio
	role
}
`

const courseFieldsFragment = `fragment CourseFields on Course {
	id
	title
	description
	published
	enrolledCount
	category {
		... CategoryFields
	}
	instructors {
		... UserFields
	}
	createdAt
	updatedAt
}
`

const GetCategoriesDocument = `query GetCategories {
	getCategories {
		... CategoryFields
	}
}
` + categoryFieldsFragment

const GetCategoryDocument = `query GetCategory ($getCategoryId: ID!) {
	getCategory(id: $getCategoryId) {
		... CategoryFields
	}
}
` + categoryFieldsFragment

const GetCoursesDocument = `query GetCourses ($categoryId: ID) {
	getCourses(categoryId: $categoryId) {
		... CourseFields
	}
}
` + courseFieldsFragment + categoryFieldsFragment + userFieldsFragment

const GetCourseDocument = `query GetCourse ($getCourseId: ID!) {
	getCourse(id: $getCourseId) {
		... CourseFields
	}
}
` + courseFieldsFragment + categoryFieldsFragment + userFieldsFragment

const SearchUsersDocument = `query SearchUsers ($filter: UserFilter!) {
	searchUsers(filter: $filter) {
		... UserFields
	}
}
` + userFieldsFragment

const MeDocument = `query Me {
	me {
		... UserFields
	}
}
` + userFieldsFragment

const GetEnrollmentsDocument = `query GetEnrollments ($courseId: ID!) {
	getEnrollments(courseId: $courseId) {
		id
		enrolledAt
		user {
			... UserFields
		}
		course {
			id
			title
		}
	}
}
` + userFieldsFragment

const CreateCategoryDocument = `mutation CreateCategory ($input: CreateCategoryInput!) {
	createCategory(input: $input) {
		... CategoryFields
	}
}
` + categoryFieldsFragment

const UpdateCategoryDocument = `mutation UpdateCategory ($updateCategoryId: ID!, $input: UpdateCategoryInput!) {
	updateCategory(id: $updateCategoryId, input: $input) {
		... CategoryFields
	}
}
` + categoryFieldsFragment

const DeleteCategoryDocument = `mutation DeleteCategory ($deleteCategoryId: ID!) {
	deleteCategory(id: $deleteCategoryId)
}
`

const CreateCourseDocument = `mutation CreateCourse ($input: CreateCourseInput!) {
	createCourse(input: $input) {
		... CourseFields
	}
}
` + courseFieldsFragment + categoryFieldsFragment + userFieldsFragment

const EnrollUsersDocument = `mutation EnrollUsers ($courseId: ID!, $userIds: [ID!]!) {
	enrollUsers(courseId: $courseId, userIds: $userIds) {
		id
		enrolledAt
		user {
			... UserFields
		}
	}
}
` + userFieldsFragment

const UpdateProfileDocument = `mutation UpdateProfile ($input: UpdateProfileInput!) {
	updateProfile(input: $input) {
		__typename
		... on User {
			... UserFields
		}
		... on ProfileValidationError {
			message
			fieldErrors {
				field
				message
			}
		}
	}
}
` + userFieldsFragment

const OnCategoryCreatedDocument = `subscription OnCategoryCreated {
	categoryCreated {
		... CategoryFields
	}
}
` + categoryFieldsFragment

var (
	GetCategoriesOperation     = &client.Descriptor{Name: "GetCategories", Kind: transport.Query, Document: GetCategoriesDocument}
	GetCategoryOperation       = &client.Descriptor{Name: "GetCategory", Kind: transport.Query, Document: GetCategoryDocument}
	GetCoursesOperation        = &client.Descriptor{Name: "GetCourses", Kind: transport.Query, Document: GetCoursesDocument}
	GetCourseOperation         = &client.Descriptor{Name: "GetCourse", Kind: transport.Query, Document: GetCourseDocument}
	SearchUsersOperation       = &client.Descriptor{Name: "SearchUsers", Kind: transport.Query, Document: SearchUsersDocument}
	MeOperation                = &client.Descriptor{Name: "Me", Kind: transport.Query, Document: MeDocument}
	GetEnrollmentsOperation    = &client.Descriptor{Name: "GetEnrollments", Kind: transport.Query, Document: GetEnrollmentsDocument}
	CreateCategoryOperation    = &client.Descriptor{Name: "CreateCategory", Kind: transport.Mutation, Document: CreateCategoryDocument}
	UpdateCategoryOperation    = &client.Descriptor{Name: "UpdateCategory", Kind: transport.Mutation, Document: UpdateCategoryDocument}
	DeleteCategoryOperation    = &client.Descriptor{Name: "DeleteCategory", Kind: transport.Mutation, Document: DeleteCategoryDocument}
	CreateCourseOperation      = &client.Descriptor{Name: "CreateCourse", Kind: transport.Mutation, Document: CreateCourseDocument}
	EnrollUsersOperation       = &client.Descriptor{Name: "EnrollUsers", Kind: transport.Mutation, Document: EnrollUsersDocument}
	UpdateProfileOperation     = &client.Descriptor{Name: "UpdateProfile", Kind: transport.Mutation, Document: UpdateProfileDocument}
	OnCategoryCreatedOperation = &client.Descriptor{Name: "OnCategoryCreated", Kind: transport.Subscription, Document: OnCategoryCreatedDocument}
)

// Operations holds every operation of the API
var Operations = client.MustCatalog(
	GetCategoriesOperation,
	GetCategoryOperation,
	GetCoursesOperation,
	GetCourseOperation,
	SearchUsersOperation,
	MeOperation,
	GetEnrollmentsOperation,
	CreateCategoryOperation,
	UpdateCategoryOperation,
	DeleteCategoryOperation,
	CreateCourseOperation,
	EnrollUsersOperation,
	UpdateProfileOperation,
	OnCategoryCreatedOperation,
)
