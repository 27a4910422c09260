package lms_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/client/transport"
	"github.com/infiotinc/lmsgql/lms"
)

// TestOneTransportCallPerOperation runs every operation against a recording transport
func TestOneTransportCallPerOperation(t *testing.T) {
	var (
		m    sync.Mutex
		reqs []transport.Request
	)

	tr := transport.Func(func(req transport.Request) transport.Response {
		m.Lock()
		reqs = append(reqs, req)
		m.Unlock()

		if req.Operation == transport.Subscription {
			res := transport.NewChanResponse(nil)
			res.CloseCh()
			return res
		}

		return transport.NewSingleResponse(transport.NewMockOperationResponse(map[string]interface{}{}, nil))
	})

	cli := lms.NewClient(&client.Client{Transport: tr})
	ctx := context.Background()

	calls := map[*client.Descriptor]func() error{
		lms.GetCategoriesOperation: func() error { _, err := cli.GetCategories(ctx); return err },
		lms.GetCategoryOperation: func() error {
			_, err := cli.GetCategory(ctx, lms.GetCategoryVariables{GetCategoryID: "1"})
			return err
		},
		lms.GetCoursesOperation: func() error { _, err := cli.GetCourses(ctx, lms.GetCoursesVariables{}); return err },
		lms.GetCourseOperation: func() error {
			_, err := cli.GetCourse(ctx, lms.GetCourseVariables{GetCourseID: "c1"})
			return err
		},
		lms.SearchUsersOperation: func() error {
			_, err := cli.SearchUsers(ctx, lms.SearchUsersVariables{})
			return err
		},
		lms.MeOperation: func() error { _, err := cli.Me(ctx); return err },
		lms.GetEnrollmentsOperation: func() error {
			_, err := cli.GetEnrollments(ctx, lms.GetEnrollmentsVariables{CourseID: "c1"})
			return err
		},
		lms.CreateCategoryOperation: func() error {
			_, err := cli.CreateCategory(ctx, lms.CreateCategoryVariables{Input: lms.CreateCategoryInput{Name: "Art"}})
			return err
		},
		lms.UpdateCategoryOperation: func() error {
			_, err := cli.UpdateCategory(ctx, lms.UpdateCategoryVariables{UpdateCategoryID: "1"})
			return err
		},
		lms.DeleteCategoryOperation: func() error {
			_, err := cli.DeleteCategory(ctx, lms.DeleteCategoryVariables{DeleteCategoryID: "1"})
			return err
		},
		lms.CreateCourseOperation: func() error {
			_, err := cli.CreateCourse(ctx, lms.CreateCourseVariables{Input: lms.CreateCourseInput{Title: "Art 101", CategoryID: "1"}})
			return err
		},
		lms.EnrollUsersOperation: func() error {
			_, err := cli.EnrollUsers(ctx, lms.EnrollUsersVariables{CourseID: "c1", UserIds: []string{"u1"}})
			return err
		},
		lms.UpdateProfileOperation: func() error {
			_, err := cli.UpdateProfile(ctx, lms.UpdateProfileVariables{})
			return err
		},
		lms.OnCategoryCreatedOperation: func() error {
			ch, err := cli.OnCategoryCreated(ctx)
			if err != nil {
				return err
			}
			for range ch {
			}
			return nil
		},
	}

	require.Len(t, calls, lms.Operations.Len())

	for _, d := range lms.Operations.Descriptors() {
		t.Run(d.Name, func(t *testing.T) {
			call, ok := calls[d]
			require.True(t, ok)

			m.Lock()
			reqs = nil
			m.Unlock()

			require.NoError(t, call())

			m.Lock()
			defer m.Unlock()

			require.Len(t, reqs, 1)
			assert.Equal(t, d.Name, reqs[0].OperationName)
			assert.Equal(t, d.Kind, reqs[0].Operation)
			assert.Equal(t, d.Document, reqs[0].Query)
		})
	}
}
