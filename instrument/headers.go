package instrument

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/infiotinc/lmsgql/client"
)

const DefaultRequestIDHeader = "X-Request-Id"

var ErrEmptyToken = errors.New("empty bearer token")

// RequestID sets a fresh UUID in header for every operation, an empty header means X-Request-Id
func RequestID(header string) client.Wrapper {
	if header == "" {
		header = DefaultRequestIDHeader
	}

	return headerWrapper(func(ctx context.Context) (http.Header, error) {
		h := http.Header{}
		h.Set(header, uuid.NewString())

		return h, nil
	})
}

// TokenSource returns the token to authenticate the next operation with
type TokenSource func(ctx context.Context) (string, error)

// StaticToken always returns token
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

// BearerToken authenticates every operation with the token from source.
// The operation is not sent when source fails.
func BearerToken(source TokenSource) client.Wrapper {
	return headerWrapper(func(ctx context.Context) (http.Header, error) {
		token, err := source(ctx)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, ErrEmptyToken
		}

		h := http.Header{}
		h.Set("Authorization", "Bearer "+token)

		return h, nil
	})
}

// headerWrapper supplies the headers returned by fn to the action
func headerWrapper(fn func(ctx context.Context) (http.Header, error)) client.Wrapper {
	return func(ctx context.Context, action client.Action, _ client.OperationInfo) error {
		h, err := fn(ctx)
		if err != nil {
			return err
		}

		return action(ctx, h)
	}
}
