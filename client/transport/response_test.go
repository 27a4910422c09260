package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleResponse(t *testing.T) {
	res := NewSingleResponse(NewMockOperationResponse("hey", nil))

	select {
	case <-res.Done():
	default:
		t.Fatal("single response must be done")
	}

	assert.True(t, res.Next())
	assert.False(t, res.Next())
	assert.NoError(t, res.Err())

	var v string
	assert.NoError(t, res.Get().UnmarshalData(&v))
	assert.Equal(t, "hey", v)
}

func TestSingleResponseClosed(t *testing.T) {
	res := NewSingleResponse(NewMockOperationResponse("hey", nil))
	res.Close()

	assert.False(t, res.Next())
	assert.NoError(t, res.Err())
}

func TestSingleResponseConcurrentClose(t *testing.T) {
	for i := 0; i < 100; i++ {
		res := NewSingleResponse(NewMockOperationResponse(i, nil))

		done := make(chan struct{})
		go func() {
			defer close(done)
			res.Close()
		}()

		res.Next()
		<-done

		assert.False(t, res.Next())
	}
}

func TestErrorResponse(t *testing.T) {
	err := errors.New("boom")
	res := NewErrorResponse(err)

	assert.False(t, res.Next())
	assert.Same(t, err, res.Err())
	assert.Equal(t, OperationResponse{}, res.Get())

	select {
	case <-res.Done():
	default:
		t.Fatal("error response must be done")
	}
}

func TestChanResponseClose(t *testing.T) {
	closed := 0
	res := NewChanResponse(func() error {
		closed++
		return nil
	})

	go func() {
		res.Send(NewMockOperationResponse(1, nil))
	}()

	assert.True(t, res.Next())

	var v int
	assert.NoError(t, res.Get().UnmarshalData(&v))
	assert.Equal(t, 1, v)

	res.Close()
	assert.Equal(t, 1, closed)

	assert.False(t, res.Next())
	assert.False(t, res.Send(NewMockOperationResponse(2, nil)), "send after close must not block")
	assert.NoError(t, res.Err())

	res.CloseCh()
}

func TestChanResponseCloseError(t *testing.T) {
	cerr := errors.New("stop failed")
	res := NewChanResponse(func() error {
		return cerr
	})

	res.Close()

	assert.False(t, res.Next())
	assert.Same(t, cerr, res.Err())
}

func TestChanResponseCloseWithError(t *testing.T) {
	res := NewChanResponse(nil)

	err := errors.New("connection lost")
	res.CloseWithError(err)

	assert.False(t, res.Next())
	assert.Same(t, err, res.Err())
}
