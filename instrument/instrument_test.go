package instrument

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/client/transport"
)

// recorder answers GetCategories and remembers the headers it was sent
type recorder struct {
	header http.Header
	err    error
	gqlErr error
}

func (r *recorder) client(w client.Wrapper) *client.Client {
	return &client.Client{
		Transport: transport.Mock{
			"GetCategories": func(req transport.Request) transport.Response {
				r.header = req.Header
				if r.err != nil {
					return transport.NewErrorResponse(r.err)
				}

				return transport.NewSingleResponse(transport.NewMockOperationResponse(map[string]interface{}{
					"getCategories": []interface{}{},
				}, r.gqlErr))
			},
		},
		Wrapper: w,
	}
}

func query(cli *client.Client) error {
	var res map[string]interface{}
	return cli.Query(context.Background(), "GetCategories", "query GetCategories { getCategories { id } }", nil, &res)
}

func TestClassify(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		err      error
		expected Outcome
	}{
		{nil, OutcomeOK},
		{gqlerror.List{{Message: "not found"}}, OutcomeGraphQLError},
		{gqlerror.Errorf("bad"), OutcomeGraphQLError},
		{fmt.Errorf("call: %w", gqlerror.List{{Message: "wrapped"}}), OutcomeGraphQLError},
		{ctx.Err(), OutcomeCanceled},
		{context.DeadlineExceeded, OutcomeCanceled},
		{&transport.HTTPError{StatusCode: 502}, OutcomeTransportError},
		{errors.New("connection refused"), OutcomeTransportError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestWrappersPreserveErrors(t *testing.T) {
	metrics, err := NewMetrics("test", nil)
	require.NoError(t, err)

	wrappers := map[string]client.Wrapper{
		"logging":    Logging(nil),
		"metrics":    metrics.Wrapper(),
		"tracing":    Tracing(nil, nil),
		"request_id": RequestID(""),
		"bearer":     BearerToken(StaticToken("t0k3n")),
	}

	for name, w := range wrappers {
		t.Run(name, func(t *testing.T) {
			terr := errors.New("connection reset")
			r := &recorder{err: terr}

			err := query(r.client(w))
			assert.Same(t, terr, err)

			r = &recorder{}
			assert.NoError(t, query(r.client(w)))
		})
	}
}
