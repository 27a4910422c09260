package transport

import "sync"

// responseError is embedded by responses that can be terminated with an error
type responseError struct {
	err error
	m   sync.RWMutex
}

func (r *responseError) CloseWithError(err error) {
	r.m.Lock()
	r.err = err
	r.m.Unlock()
}

func (r *responseError) Err() error {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.err
}

// ErrorResponse is a Response that failed before producing any result
type ErrorResponse struct {
	responseError
	dc chan struct{}
}

func NewErrorResponse(err error) *ErrorResponse {
	dc := make(chan struct{})
	close(dc)

	r := &ErrorResponse{dc: dc}
	r.err = err

	return r
}

func (r *ErrorResponse) Next() bool {
	return false
}

func (r *ErrorResponse) Get() OperationResponse {
	return OperationResponse{}
}

func (r *ErrorResponse) Close() {}

func (r *ErrorResponse) Done() <-chan struct{} {
	return r.dc
}
