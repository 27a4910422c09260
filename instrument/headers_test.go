package instrument

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infiotinc/lmsgql/client"
)

func TestRequestID(t *testing.T) {
	r := &recorder{}
	cli := r.client(RequestID(""))

	require.NoError(t, query(cli))
	first := r.header.Get("X-Request-Id")
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	require.NoError(t, query(cli))
	assert.NotEqual(t, first, r.header.Get("X-Request-Id"))
}

func TestRequestIDOverridesCallerHeader(t *testing.T) {
	r := &recorder{}
	cli := r.client(RequestID("X-Correlation-Id"))

	var res map[string]interface{}
	err := cli.Query(context.Background(), "GetCategories", "query GetCategories { getCategories { id } }", nil, &res,
		client.WithHeader("X-Correlation-Id", "caller"),
	)
	require.NoError(t, err)

	assert.Len(t, r.header.Values("X-Correlation-Id"), 1)
	assert.NotEqual(t, "caller", r.header.Get("X-Correlation-Id"))
}

func TestBearerToken(t *testing.T) {
	r := &recorder{}
	require.NoError(t, query(r.client(BearerToken(StaticToken("t0k3n")))))
	assert.Equal(t, "Bearer t0k3n", r.header.Get("Authorization"))
}

func TestBearerTokenFailure(t *testing.T) {
	terr := errors.New("token expired")

	r := &recorder{}
	err := query(r.client(BearerToken(func(context.Context) (string, error) {
		return "", terr
	})))
	assert.Same(t, terr, err)
	assert.Nil(t, r.header, "transport must not be reached")

	err = query(r.client(BearerToken(StaticToken(""))))
	assert.ErrorIs(t, err, ErrEmptyToken)
	assert.Nil(t, r.header)
}

func TestChainedWrappers(t *testing.T) {
	r := &recorder{}
	cli := r.client(client.ChainWrappers(
		Logging(nil),
		BearerToken(StaticToken("outer")),
		RequestID(""),
		BearerToken(StaticToken("inner")),
	))

	require.NoError(t, query(cli))
	assert.Equal(t, "Bearer inner", r.header.Get("Authorization"))
	assert.NotEmpty(t, r.header.Get("X-Request-Id"))
}
