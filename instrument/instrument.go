// Package instrument provides client.Wrapper implementations for logging, metrics,
// tracing and request headers. They compose with client.ChainWrappers.
package instrument

import (
	"context"
	"errors"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Outcome classifies the result of one operation
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeGraphQLError   Outcome = "graphql_error"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeCanceled       Outcome = "canceled"
)

// Classify maps the error returned by an operation to its Outcome
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}

	var list gqlerror.List
	if errors.As(err, &list) {
		return OutcomeGraphQLError
	}

	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return OutcomeGraphQLError
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return OutcomeCanceled
	}

	return OutcomeTransportError
}
