package transport

import "sync"

// ChanResponse is a Response fed by a producer goroutine through Send.
// Send blocks until the consumer calls Next or the response is closed.
type ChanResponse struct {
	responseError

	ch        chan OperationResponse
	onClose   func() error
	closeOnce sync.Once
	dc        chan struct{}

	cor OperationResponse
}

func NewChanResponse(onClose func() error) *ChanResponse {
	return &ChanResponse{
		ch:      make(chan OperationResponse),
		dc:      make(chan struct{}),
		onClose: onClose,
	}
}

func (r *ChanResponse) Next() bool {
	if r.Err() != nil {
		return false
	}

	select {
	case or := <-r.ch:
		r.cor = or
		return true
	case <-r.dc:
		return false
	}
}

func (r *ChanResponse) Get() OperationResponse {
	return r.cor
}

// Close releases the producer side through onClose, then ends the stream
func (r *ChanResponse) Close() {
	if r.onClose != nil {
		if err := r.onClose(); err != nil {
			r.responseError.CloseWithError(err)
		}
	}
	r.CloseCh()
}

func (r *ChanResponse) CloseWithError(err error) {
	r.responseError.CloseWithError(err)
	r.CloseCh()
}

// CloseCh ends the stream without calling onClose, it is safe to call more than once
func (r *ChanResponse) CloseCh() {
	r.closeOnce.Do(func() {
		close(r.dc)
	})
}

func (r *ChanResponse) Done() <-chan struct{} {
	return r.dc
}

// Send hands op to the consumer, it returns false if the response was closed first
func (r *ChanResponse) Send(op OperationResponse) bool {
	select {
	case <-r.dc:
		return false
	default:
	}

	select {
	case r.ch <- op:
		return true
	case <-r.dc:
		return false
	}
}
