package lmsmock

import (
	"context"

	"github.com/infiotinc/lmsgql/lms"
)

// NoVariables is the variables type of operations that declare none
type NoVariables struct{}

func typed[V any, R any](resolve func(ctx context.Context, vars V) (*R, error)) Resolver {
	return func(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
		var vars V
		if err := decodeVariables(variables, &vars); err != nil {
			return nil, err
		}

		res, err := resolve(ctx, vars)
		if err != nil {
			return nil, err
		}

		return res, nil
	}
}

func typedSubscription[V any, R any](subscribe func(ctx context.Context, vars V) (<-chan *R, error)) Subscriber {
	return func(ctx context.Context, variables map[string]interface{}) (<-chan interface{}, error) {
		var vars V
		if err := decodeVariables(variables, &vars); err != nil {
			return nil, err
		}

		in, err := subscribe(ctx, vars)
		if err != nil {
			return nil, err
		}

		out := make(chan interface{})
		go func() {
			defer close(out)

			for {
				select {
				case v, ok := <-in:
					if !ok {
						return
					}

					select {
					case out <- v:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return out, nil
	}
}

func MockGetCategoriesQuery(resolve func(ctx context.Context, vars NoVariables) (*lms.GetCategories, error)) Handler {
	return Query(lms.GetCategoriesOperation.Name, typed(resolve))
}

func MockGetCategoryQuery(resolve func(ctx context.Context, vars lms.GetCategoryVariables) (*lms.GetCategory, error)) Handler {
	return Query(lms.GetCategoryOperation.Name, typed(resolve))
}

func MockGetCoursesQuery(resolve func(ctx context.Context, vars lms.GetCoursesVariables) (*lms.GetCourses, error)) Handler {
	return Query(lms.GetCoursesOperation.Name, typed(resolve))
}

func MockGetCourseQuery(resolve func(ctx context.Context, vars lms.GetCourseVariables) (*lms.GetCourse, error)) Handler {
	return Query(lms.GetCourseOperation.Name, typed(resolve))
}

func MockSearchUsersQuery(resolve func(ctx context.Context, vars lms.SearchUsersVariables) (*lms.SearchUsers, error)) Handler {
	return Query(lms.SearchUsersOperation.Name, typed(resolve))
}

func MockMeQuery(resolve func(ctx context.Context, vars NoVariables) (*lms.Me, error)) Handler {
	return Query(lms.MeOperation.Name, typed(resolve))
}

func MockGetEnrollmentsQuery(resolve func(ctx context.Context, vars lms.GetEnrollmentsVariables) (*lms.GetEnrollments, error)) Handler {
	return Query(lms.GetEnrollmentsOperation.Name, typed(resolve))
}

func MockCreateCategoryMutation(resolve func(ctx context.Context, vars lms.CreateCategoryVariables) (*lms.CreateCategory, error)) Handler {
	return Mutation(lms.CreateCategoryOperation.Name, typed(resolve))
}

func MockUpdateCategoryMutation(resolve func(ctx context.Context, vars lms.UpdateCategoryVariables) (*lms.UpdateCategory, error)) Handler {
	return Mutation(lms.UpdateCategoryOperation.Name, typed(resolve))
}

func MockDeleteCategoryMutation(resolve func(ctx context.Context, vars lms.DeleteCategoryVariables) (*lms.DeleteCategory, error)) Handler {
	return Mutation(lms.DeleteCategoryOperation.Name, typed(resolve))
}

func MockCreateCourseMutation(resolve func(ctx context.Context, vars lms.CreateCourseVariables) (*lms.CreateCourse, error)) Handler {
	return Mutation(lms.CreateCourseOperation.Name, typed(resolve))
}

func MockEnrollUsersMutation(resolve func(ctx context.Context, vars lms.EnrollUsersVariables) (*lms.EnrollUsers, error)) Handler {
	return Mutation(lms.EnrollUsersOperation.Name, typed(resolve))
}

func MockUpdateProfileMutation(resolve func(ctx context.Context, vars lms.UpdateProfileVariables) (*lms.UpdateProfile, error)) Handler {
	return Mutation(lms.UpdateProfileOperation.Name, typed(resolve))
}

func MockOnCategoryCreatedSubscription(subscribe func(ctx context.Context, vars NoVariables) (<-chan *lms.OnCategoryCreated, error)) Handler {
	return Subscription(lms.OnCategoryCreatedOperation.Name, typedSubscription(subscribe))
}
