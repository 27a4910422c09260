package lms

import (
	"context"

	"github.com/infiotinc/lmsgql/client"
)

type Client struct {
	Client *client.Client
}

func NewClient(cli *client.Client) *Client {
	return &Client{Client: cli}
}

func (c *Client) GetCategories(ctx context.Context, opts ...client.CallOption) (*GetCategories, error) {
	return client.Do[GetCategories](ctx, c.Client, GetCategoriesOperation, nil, opts...)
}

func (c *Client) GetCategory(ctx context.Context, vars GetCategoryVariables, opts ...client.CallOption) (*GetCategory, error) {
	return client.Do[GetCategory](ctx, c.Client, GetCategoryOperation, vars.Map(), opts...)
}

func (c *Client) GetCourses(ctx context.Context, vars GetCoursesVariables, opts ...client.CallOption) (*GetCourses, error) {
	return client.Do[GetCourses](ctx, c.Client, GetCoursesOperation, vars.Map(), opts...)
}

func (c *Client) GetCourse(ctx context.Context, vars GetCourseVariables, opts ...client.CallOption) (*GetCourse, error) {
	return client.Do[GetCourse](ctx, c.Client, GetCourseOperation, vars.Map(), opts...)
}

func (c *Client) SearchUsers(ctx context.Context, vars SearchUsersVariables, opts ...client.CallOption) (*SearchUsers, error) {
	return client.Do[SearchUsers](ctx, c.Client, SearchUsersOperation, vars.Map(), opts...)
}

func (c *Client) Me(ctx context.Context, opts ...client.CallOption) (*Me, error) {
	return client.Do[Me](ctx, c.Client, MeOperation, nil, opts...)
}

func (c *Client) GetEnrollments(ctx context.Context, vars GetEnrollmentsVariables, opts ...client.CallOption) (*GetEnrollments, error) {
	return client.Do[GetEnrollments](ctx, c.Client, GetEnrollmentsOperation, vars.Map(), opts...)
}

func (c *Client) CreateCategory(ctx context.Context, vars CreateCategoryVariables, opts ...client.CallOption) (*CreateCategory, error) {
	return client.Do[CreateCategory](ctx, c.Client, CreateCategoryOperation, vars.Map(), opts...)
}

func (c *Client) UpdateCategory(ctx context.Context, vars UpdateCategoryVariables, opts ...client.CallOption) (*UpdateCategory, error) {
	return client.Do[UpdateCategory](ctx, c.Client, UpdateCategoryOperation, vars.Map(), opts...)
}

func (c *Client) DeleteCategory(ctx context.Context, vars DeleteCategoryVariables, opts ...client.CallOption) (*DeleteCategory, error) {
	return client.Do[DeleteCategory](ctx, c.Client, DeleteCategoryOperation, vars.Map(), opts...)
}

func (c *Client) CreateCourse(ctx context.Context, vars CreateCourseVariables, opts ...client.CallOption) (*CreateCourse, error) {
	return client.Do[CreateCourse](ctx, c.Client, CreateCourseOperation, vars.Map(), opts...)
}

func (c *Client) EnrollUsers(ctx context.Context, vars EnrollUsersVariables, opts ...client.CallOption) (*EnrollUsers, error) {
	return client.Do[EnrollUsers](ctx, c.Client, EnrollUsersOperation, vars.Map(), opts...)
}

func (c *Client) UpdateProfile(ctx context.Context, vars UpdateProfileVariables, opts ...client.CallOption) (*UpdateProfile, error) {
	return client.Do[UpdateProfile](ctx, c.Client, UpdateProfileOperation, vars.Map(), opts...)
}

func (c *Client) OnCategoryCreated(ctx context.Context, opts ...client.CallOption) (<-chan client.Message[OnCategoryCreated], error) {
	return client.Subscribe[OnCategoryCreated](ctx, c.Client, OnCategoryCreatedOperation, nil, opts...)
}
