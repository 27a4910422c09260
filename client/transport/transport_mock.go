package transport

import (
	"encoding/json"
	"fmt"
)

// Mock answers requests from a table keyed by operation name.
// Requests without an operation name are looked up by their query text.
type Mock map[string]Func

func (m Mock) Request(req Request) Response {
	key := req.OperationName
	if key == "" {
		key = req.Query
	}

	f, ok := m[key]
	if !ok {
		return NewErrorResponse(fmt.Errorf("no mock for operation %q", key))
	}

	return f(req)
}

// NewMockOperationResponse builds a response whose data is the JSON encoding of v
func NewMockOperationResponse(v interface{}, gqlErr error) OperationResponse {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	or := OperationResponse{
		Data: data,
	}

	if gqlErr != nil {
		or.Errors = ErrorList(gqlErr)
	}

	return or
}
