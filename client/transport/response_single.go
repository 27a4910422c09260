package transport

import "sync"

// SingleResponse yields one already received OperationResponse
type SingleResponse struct {
	or OperationResponse

	m        sync.Mutex
	consumed bool
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func NewSingleResponse(or OperationResponse) *SingleResponse {
	return &SingleResponse{or: or}
}

// Next reports true once, unless the response was closed first
func (r *SingleResponse) Next() bool {
	r.m.Lock()
	defer r.m.Unlock()

	if r.consumed {
		return false
	}
	r.consumed = true

	return true
}

func (r *SingleResponse) Get() OperationResponse {
	return r.or
}

// Close drops the result if Next has not been called yet
func (r *SingleResponse) Close() {
	r.m.Lock()
	r.consumed = true
	r.m.Unlock()
}

// Done is always closed, the result is already there
func (r *SingleResponse) Done() <-chan struct{} {
	return closedCh
}

func (r *SingleResponse) Err() error {
	return nil
}
