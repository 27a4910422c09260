package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errConnClosed = errors.New("fake conn closed")

// fakeConn is an in-memory WebsocketConn, the test plays the server
type fakeConn struct {
	in     chan OperationMessage
	out    chan OperationMessage
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan OperationMessage),
		out:    make(chan OperationMessage, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadJSON(v interface{}) error {
	select {
	case msg := <-c.in:
		b, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, v)
	case <-c.closed:
		return errConnClosed
	}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var msg OperationMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	select {
	case c.out <- msg:
		return nil
	case <-c.closed:
		return errConnClosed
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
	})
	return nil
}

func (c *fakeConn) SetReadLimit(int64) {}

// send delivers a server message
func (c *fakeConn) send(t *testing.T, msg OperationMessage) {
	t.Helper()

	select {
	case c.in <- msg:
	case <-c.closed:
	case <-time.After(5 * time.Second):
		t.Errorf("client did not read %v", msg)
	}
}

// expect waits for the next client message, which must be of type typ
func (c *fakeConn) expect(t *testing.T, typ OperationMessageType) OperationMessage {
	t.Helper()

	select {
	case msg := <-c.out:
		require.Equal(t, typ, msg.Type, msg.String())
		return msg
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not send %v", typ)
	}

	return OperationMessage{}
}

type fakeServer struct {
	conns chan *fakeConn
}

func (s *fakeServer) provider(ctx context.Context, URL string) (WebsocketConn, error) {
	c := newFakeConn()
	select {
	case s.conns <- c:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// accept waits for the client to dial and acknowledges its connection_init
func (s *fakeServer) accept(t *testing.T) *fakeConn {
	t.Helper()

	select {
	case c := <-s.conns:
		c.expect(t, GQL_CONNECTION_INIT)
		c.send(t, OperationMessage{Type: GQL_CONNECTION_ACK})
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("client did not dial")
	}

	return nil
}

func newWs(t *testing.T) (*Ws, *fakeServer) {
	s := &fakeServer{conns: make(chan *fakeConn)}

	tr := &Ws{
		URL:                   "ws://lms.test/graphql",
		WebsocketConnProvider: s.provider,
		RetryInterval:         10 * time.Millisecond,
		Logger:                zap.NewNop(),
	}

	return tr, s
}

func data(t *testing.T, v interface{}) json.RawMessage {
	b, err := json.Marshal(map[string]interface{}{"data": v})
	require.NoError(t, err)
	return b
}

func subscriptionRequest() Request {
	return Request{
		Context:       context.Background(),
		Operation:     Subscription,
		OperationName: "OnCategoryCreated",
		Query:         "subscription OnCategoryCreated { categoryCreated { id } }",
	}
}

func TestWsSubscription(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	res := tr.Request(subscriptionRequest())
	defer res.Close()

	start := conn.expect(t, GQL_START)
	var payload OperationRequest
	require.NoError(t, json.Unmarshal(start.Payload, &payload))
	assert.Equal(t, "OnCategoryCreated", payload.OperationName)

	go func() {
		conn.send(t, OperationMessage{ID: start.ID, Type: GQL_CONNECTION_KEEP_ALIVE})
		conn.send(t, OperationMessage{ID: start.ID, Type: GQL_DATA, Payload: data(t, "a")})
		conn.send(t, OperationMessage{ID: start.ID, Type: GQL_DATA, Payload: data(t, "b")})
		conn.send(t, OperationMessage{ID: start.ID, Type: GQL_COMPLETE})
	}()

	var got []string
	for res.Next() {
		var v string
		require.NoError(t, res.Get().UnmarshalData(&v))
		got = append(got, v)
	}
	require.NoError(t, res.Err())

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWsPendingUntilAck(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	var conn *fakeConn
	select {
	case conn = <-srv.conns:
	case <-time.After(5 * time.Second):
		t.Fatal("client did not dial")
	}
	conn.expect(t, GQL_CONNECTION_INIT)

	res := tr.Request(subscriptionRequest())
	defer res.Close()

	select {
	case msg := <-conn.out:
		t.Fatalf("unexpected message before ack: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}

	conn.send(t, OperationMessage{Type: GQL_CONNECTION_ACK})
	conn.expect(t, GQL_START)
}

func TestWsUnsubscribe(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	req := subscriptionRequest()
	req.Context = ctx

	res := tr.Request(req)
	start := conn.expect(t, GQL_START)

	cancel()

	stop := conn.expect(t, GQL_STOP)
	assert.Equal(t, start.ID, stop.ID)

	select {
	case <-res.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("response not closed")
	}
	assert.False(t, res.Next())
}

func TestWsError(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	res := tr.Request(subscriptionRequest())
	defer res.Close()

	start := conn.expect(t, GQL_START)

	go conn.send(t, OperationMessage{ID: start.ID, Type: GQL_ERROR, Payload: json.RawMessage(`[{"message":"Cannot query field \"nope\""}]`)})

	require.True(t, res.Next())
	errs := res.Get().Errors
	require.Len(t, errs, 1)
	assert.Equal(t, `Cannot query field "nope"`, errs[0].Message)

	assert.False(t, res.Next())
}

func TestWsReconnect(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	res := tr.Request(subscriptionRequest())
	defer res.Close()

	first := conn.expect(t, GQL_START)

	// server drops the connection
	_ = conn.Close()

	conn = srv.accept(t)
	restart := conn.expect(t, GQL_START)
	assert.Equal(t, first.ID, restart.ID)

	next := tr.Request(subscriptionRequest())
	defer next.Close()

	second := conn.expect(t, GQL_START)
	assert.NotEqual(t, first.ID, second.ID)

	go conn.send(t, OperationMessage{ID: restart.ID, Type: GQL_DATA, Payload: data(t, "after reconnect")})

	require.True(t, res.Next())
	var v string
	require.NoError(t, res.Get().UnmarshalData(&v))
	assert.Equal(t, "after reconnect", v)
}

func TestWsConnectionError(t *testing.T) {
	tr, srv := newWs(t)
	errc := tr.Start(context.Background())
	defer tr.Close()

	done := make(chan struct{})
	defer close(done)

	// reject every connection attempt until the error is observed
	go func() {
		for {
			select {
			case conn := <-srv.conns:
				<-conn.out
				conn.send(t, OperationMessage{Type: GQL_CONNECTION_ERROR, Payload: json.RawMessage(`{"message":"unauthorized"}`)})
			case <-done:
				return
			}
		}
	}()

	select {
	case err := <-errc:
		assert.ErrorContains(t, err, "unauthorized")
	case <-time.After(5 * time.Second):
		t.Fatal("connection error not reported")
	}
}

func TestWsRetryTimeout(t *testing.T) {
	dialErr := errors.New("connection refused")

	tr := &Ws{
		URL: "ws://lms.test/graphql",
		WebsocketConnProvider: func(ctx context.Context, URL string) (WebsocketConn, error) {
			return nil, dialErr
		},
		RetryTimeout:  30 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
		Logger:        zap.NewNop(),
	}
	defer tr.Close()

	select {
	case err := <-tr.Start(context.Background()):
		assert.ErrorIs(t, err, ErrRetryTimeout)
		assert.ErrorContains(t, err, "connection refused")
	case <-time.After(5 * time.Second):
		t.Fatal("retry timeout not reported")
	}
}

func TestWsClose(t *testing.T) {
	tr, srv := newWs(t)
	errc := tr.Start(context.Background())

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	res := tr.Request(subscriptionRequest())
	conn.expect(t, GQL_START)

	require.NoError(t, tr.Close())

	conn.expect(t, GQL_STOP)
	conn.expect(t, GQL_CONNECTION_TERMINATE)

	assert.Equal(t, StatusClosed, tr.Status())
	assert.False(t, res.Next())

	closed := tr.Request(subscriptionRequest())
	assert.False(t, closed.Next())
	assert.ErrorIs(t, closed.Err(), ErrClosed)

	select {
	case _, ok := <-errc:
		for ok {
			_, ok = <-errc
		}
	case <-time.After(5 * time.Second):
		t.Fatal("connection loop did not stop")
	}
}

func TestWsStartSkipsRemovedOperation(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())
	defer tr.Close()

	conn := srv.accept(t)
	require.True(t, tr.WaitFor(StatusReady, 5*time.Second))

	res := tr.Request(subscriptionRequest())
	start := conn.expect(t, GQL_START)

	op := tr.getOperation(start.ID)
	require.NotNil(t, op)

	res.Close()
	conn.expect(t, GQL_STOP)

	// an ack racing the unsubscribe may still hold op
	require.NoError(t, tr.startOperation(start.ID, op))

	select {
	case msg := <-conn.out:
		t.Fatalf("unexpected message: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWsCloseDuringAck(t *testing.T) {
	tr, srv := newWs(t)
	tr.Start(context.Background())

	var conn *fakeConn
	select {
	case conn = <-srv.conns:
	case <-time.After(5 * time.Second):
		t.Fatal("client did not dial")
	}
	conn.expect(t, GQL_CONNECTION_INIT)

	var responses []Response
	for i := 0; i < 10; i++ {
		responses = append(responses, tr.Request(subscriptionRequest()))
	}

	go conn.send(t, OperationMessage{Type: GQL_CONNECTION_ACK})

	require.NoError(t, tr.Close())
	assert.Equal(t, StatusClosed, tr.Status())

	for _, res := range responses {
		select {
		case <-res.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("response not closed")
		}
	}

	// every start that made it out is followed by its stop
	starts := map[string]bool{}
	for {
		select {
		case msg := <-conn.out:
			switch msg.Type {
			case GQL_START:
				starts[msg.ID] = true
			case GQL_STOP:
				assert.True(t, starts[msg.ID], "stop before start for %v", msg.ID)
				delete(starts, msg.ID)
			}
			continue
		default:
		}
		break
	}
	assert.Empty(t, starts)
}
