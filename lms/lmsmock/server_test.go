package lmsmock

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/client/transport"
	"github.com/infiotinc/lmsgql/lms"
)

func httpClient(t *testing.T, srv *Server) *lms.Client {
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return lms.NewClient(&client.Client{Transport: &transport.Http{URL: ts.URL}})
}

func TestKindMismatch(t *testing.T) {
	srv := NewServer(Mutation(lms.MeOperation.Name, func(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"me": nil}, nil
	}))

	_, err := httpClient(t, srv).Me(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock handler for Me is a mutation, got a query")

	assert.EqualError(t, srv.Validate(lms.Operations), "mock handler for query Me is a mutation")
}

func TestValidateUnknownOperation(t *testing.T) {
	srv := NewServer(Query("GetEverything", func(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
		return nil, nil
	}))

	assert.EqualError(t, srv.Validate(lms.Operations), `mock handler for unknown operation "GetEverything"`)

	srv.Reset()
	assert.NoError(t, srv.Validate(lms.Operations))
}

func TestHandleReplaces(t *testing.T) {
	srv := NewServer(MockMeQuery(func(ctx context.Context, vars NoVariables) (*lms.Me, error) {
		return &lms.Me{Me: &lms.UserFields{ID: "first"}}, nil
	}))
	cli := httpClient(t, srv)

	res, err := cli.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", res.Me.ID)

	srv.Handle(MockMeQuery(func(ctx context.Context, vars NoVariables) (*lms.Me, error) {
		return &lms.Me{Me: &lms.UserFields{ID: "second"}}, nil
	}))

	res, err = cli.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", res.Me.ID)

	srv.Reset()

	_, err = cli.Me(context.Background())
	assert.Error(t, err)
}

func TestTypedVariables(t *testing.T) {
	var got lms.SearchUsersVariables

	srv := NewServer(MockSearchUsersQuery(func(ctx context.Context, vars lms.SearchUsersVariables) (*lms.SearchUsers, error) {
		got = vars
		return &lms.SearchUsers{SearchUsers: []*lms.UserFields{}}, nil
	}))

	search, role, limit := "ada", lms.RoleAdmin, 3
	_, err := httpClient(t, srv).SearchUsers(context.Background(), lms.SearchUsersVariables{Filter: lms.UserFilter{
		Search:     &search,
		Role:       &role,
		ExcludeIds: []string{"u9"},
		Limit:      &limit,
	}})
	require.NoError(t, err)

	require.NotNil(t, got.Filter.Search)
	assert.Equal(t, "ada", *got.Filter.Search)
	require.NotNil(t, got.Filter.Role)
	assert.Equal(t, lms.RoleAdmin, *got.Filter.Role)
	assert.Equal(t, []string{"u9"}, got.Filter.ExcludeIds)
	require.NotNil(t, got.Filter.Limit)
	assert.Equal(t, 3, *got.Filter.Limit)
}

func TestInvalidDocument(t *testing.T) {
	srv := NewServer(NewFixtures().Handlers()...)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	cli := &client.Client{Transport: &transport.Http{URL: ts.URL}}

	var res map[string]interface{}
	err := cli.Query(context.Background(), "GetCategories", "query GetCategories { getCategories { nope } }", nil, &res)
	require.Error(t, err)

	var list gqlerror.List
	require.True(t, errors.As(err, &list))
	assert.Contains(t, list[0].Message, "nope")
}

func TestHandlerWithoutResolver(t *testing.T) {
	srv := NewServer(
		Handler{Name: lms.MeOperation.Name, Kind: transport.Query},
		Handler{Name: lms.OnCategoryCreatedOperation.Name, Kind: transport.Subscription},
	)
	assert.NoError(t, srv.Validate(lms.Operations))

	cli := httpClient(t, srv)

	_, err := cli.Me(context.Background())
	var list gqlerror.List
	require.True(t, errors.As(err, &list), "%v", err)
	assert.Equal(t, "mock handler for query Me has no resolver", list[0].Message)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ws := &transport.Ws{URL: "ws" + strings.TrimPrefix(ts.URL, "http")}
	ws.Start(context.Background())
	defer ws.Close()

	sub := lms.NewClient(&client.Client{Transport: ws})

	ch, err := sub.OnCategoryCreated(context.Background())
	require.NoError(t, err)

	select {
	case msg := <-ch:
		require.True(t, errors.As(msg.Error, &list), "%v", msg.Error)
		assert.Equal(t, "mock handler for subscription OnCategoryCreated has no subscriber", list[0].Message)
	case <-time.After(5 * time.Second):
		t.Fatal("no error received")
	}
}

func TestResolverErrors(t *testing.T) {
	srv := NewServer(
		MockMeQuery(func(ctx context.Context, vars NoVariables) (*lms.Me, error) {
			return nil, errors.New("database down")
		}),
		MockGetCategoriesQuery(func(ctx context.Context, vars NoVariables) (*lms.GetCategories, error) {
			return nil, gqlerror.List{{Message: "a"}, {Message: "b"}}
		}),
	)
	cli := httpClient(t, srv)

	var list gqlerror.List

	_, err := cli.Me(context.Background())
	require.True(t, errors.As(err, &list), "%v", err)
	require.Len(t, list, 1)
	assert.Equal(t, "database down", list[0].Message)

	_, err = cli.GetCategories(context.Background())
	require.True(t, errors.As(err, &list), "%v", err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].Message)
}
