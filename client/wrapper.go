package client

import (
	"context"
	"net/http"

	"github.com/infiotinc/lmsgql/client/transport"
)

// OperationInfo describes the operation a Wrapper is invoked for
type OperationInfo struct {
	Name      string
	Kind      transport.Operation
	Variables map[string]interface{}
}

// Action performs the transport round trip of one call.
// header is layered over the caller headers, its keys win on conflict.
type Action func(ctx context.Context, header http.Header) error

// Wrapper is interposed between a call and its transport round trip.
// It must invoke action at most once and return its error, possibly after side work.
type Wrapper func(ctx context.Context, action Action, op OperationInfo) error

// DefaultWrapper invokes the action right away
func DefaultWrapper(ctx context.Context, action Action, _ OperationInfo) error {
	return action(ctx, nil)
}

// ChainWrappers nests ws, the first one being the outermost.
// Headers supplied by inner wrappers take precedence over outer ones.
func ChainWrappers(ws ...Wrapper) Wrapper {
	return func(ctx context.Context, action Action, op OperationInfo) error {
		next := action
		for i := len(ws) - 1; i >= 0; i-- {
			w, inner := ws[i], next
			next = func(ctx context.Context, outer http.Header) error {
				return w(ctx, func(ctx context.Context, header http.Header) error {
					return inner(ctx, MergeHeaders(outer, header))
				}, op)
			}
		}

		return next(ctx, nil)
	}
}
