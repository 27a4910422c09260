package transport

// Original work from https://github.com/hasura/go-graphql-client/blob/0806e5ec7/subscription.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

type OperationMessageType string

const (
	// GQL_CONNECTION_INIT the Client sends this message after plain websocket connection to start the communication with the server
	GQL_CONNECTION_INIT OperationMessageType = "connection_init"
	// GQL_CONNECTION_ERROR The server may responses with this message to the GQL_CONNECTION_INIT from client, indicates the server rejected the connection.
	GQL_CONNECTION_ERROR OperationMessageType = "connection_error"
	// GQL_START Client sends this message to execute GraphQL operation
	GQL_START OperationMessageType = "start"
	// GQL_STOP Client sends this message in order to stop a running GraphQL operation execution (for example: unsubscribe)
	GQL_STOP OperationMessageType = "stop"
	// GQL_ERROR Server sends this message upon a failing operation, before the GraphQL execution, usually due to GraphQL validation errors (resolver errors are part of GQL_DATA message, and will be added as errors array)
	GQL_ERROR OperationMessageType = "error"
	// GQL_DATA The server sends this message to transfter the GraphQL execution result from the server to the client, this message is a response for GQL_START message.
	GQL_DATA OperationMessageType = "data"
	// GQL_COMPLETE Server sends this message to indicate that a GraphQL operation is done, and no more data will arrive for the specific operation.
	GQL_COMPLETE OperationMessageType = "complete"
	// GQL_CONNECTION_KEEP_ALIVE Server message that should be sent right after each GQL_CONNECTION_ACK processed and then periodically to keep the client connection alive.
	// The client starts to consider the keep alive message only upon the first received keep alive message from the server.
	GQL_CONNECTION_KEEP_ALIVE OperationMessageType = "ka"
	// GQL_CONNECTION_ACK The server may responses with this message to the GQL_CONNECTION_INIT from client, indicates the server accepted the connection. May optionally include a payload.
	GQL_CONNECTION_ACK OperationMessageType = "connection_ack"
	// GQL_CONNECTION_TERMINATE the Client sends this message to terminate the connection.
	GQL_CONNECTION_TERMINATE OperationMessageType = "connection_terminate"

	// GQL_UNKNOWN is an Unknown operation type, for logging only
	GQL_UNKNOWN OperationMessageType = "unknown"
	// GQL_INTERNAL is the Internal status, for logging only
	GQL_INTERNAL OperationMessageType = "internal"
)

var (
	ErrRetryTimeout = errors.New("websocket: retry timeout exceeded")
	ErrClosed       = errors.New("websocket: transport closed")
)

type WebsocketConn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
	// SetReadLimit sets the maximum size in bytes for a message read from the peer. If a
	// message exceeds the limit, the connection sends a close message to the peer
	// and returns ErrReadLimit to the application.
	SetReadLimit(limit int64)
}

type OperationMessage struct {
	ID      string               `json:"id,omitempty"`
	Type    OperationMessageType `json:"type"`
	Payload json.RawMessage      `json:"payload,omitempty"`
}

func (msg OperationMessage) String() string {
	return fmt.Sprintf("%v %v %s", msg.ID, msg.Type, msg.Payload)
}

type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusReady
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusReady:
		return "ready"
	case StatusClosed:
		return "closed"
	}

	return "status(" + strconv.Itoa(int(s)) + ")"
}

type wsResponse struct {
	*ChanResponse
	Request

	// guarded by Ws.opsm
	started bool
}

type WebsocketConnProvider func(ctx context.Context, URL string) (WebsocketConn, error)

// Ws transports GQL queries over websocket
// Run() must be called to initiate the websocket connection (Start() is a convenience method)
// Close() must be called to dispose of the connection
type Ws struct {
	URL string

	// ConnectionParams will be sent during the connection init
	ConnectionParams interface{}
	// WebsocketConnProvider defaults to DefaultWebsocketConnProvider(time.Minute)
	WebsocketConnProvider WebsocketConnProvider
	// Timeout for retrying connecting, default to 5 minutes
	RetryTimeout time.Duration
	// RetryInterval defaults to 1 second
	RetryInterval time.Duration
	// Logger defaults to a no-op logger, or a development logger when the "WS_LOG" env is true
	Logger *zap.Logger

	i     uint64
	conn  WebsocketConn
	connm sync.RWMutex

	ops  map[string]*wsResponse
	opsm sync.Mutex

	status  Status
	statusc chan struct{}
	statusm sync.Mutex

	cancel  context.CancelFunc
	cancelm sync.Mutex

	initOnce sync.Once
}

func (t *Ws) initStruct() {
	t.initOnce.Do(func() {
		t.opsm.Lock()
		if t.ops == nil {
			t.ops = map[string]*wsResponse{}
		}
		t.opsm.Unlock()

		t.statusm.Lock()
		t.statusc = make(chan struct{})
		t.statusm.Unlock()

		if t.RetryTimeout == 0 {
			t.RetryTimeout = 5 * time.Minute
		}

		if t.RetryInterval == 0 {
			t.RetryInterval = time.Second
		}

		if t.WebsocketConnProvider == nil {
			t.WebsocketConnProvider = DefaultWebsocketConnProvider(time.Minute)
		}

		if t.Logger == nil {
			t.Logger = zap.NewNop()
			if wsLog, _ := strconv.ParseBool(os.Getenv("WS_LOG")); wsLog {
				if l, err := zap.NewDevelopment(); err == nil {
					t.Logger = l
				}
			}
		}
	})
}

// Start runs the connection loop in the background, reconnecting whenever Run fails.
// Errors are forwarded to the returned channel when someone is listening, it is closed
// once the loop stops.
func (t *Ws) Start(ctx context.Context) <-chan error {
	t.initStruct()

	ctx, cancel := context.WithCancel(ctx)
	t.cancelm.Lock()
	t.cancel = cancel
	t.cancelm.Unlock()

	ch := make(chan error)

	go func() {
		defer close(ch)

		for {
			err := t.Run(ctx)
			if err == nil || ctx.Err() != nil || t.Status() == StatusClosed {
				return
			}

			if errors.Is(err, ErrRetryTimeout) {
				select {
				case ch <- err:
				case <-ctx.Done():
				}
				return
			}

			select {
			case ch <- err: // Attempt to write err
			default:
			}
		}
	}()

	return ch
}

// Status reports the connection state
func (t *Ws) Status() Status {
	t.statusm.Lock()
	defer t.statusm.Unlock()

	return t.status
}

// WaitFor blocks until the transport reaches status, it returns false on timeout
func (t *Ws) WaitFor(status Status, timeout time.Duration) bool {
	t.initStruct()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		t.statusm.Lock()
		if t.status == status {
			t.statusm.Unlock()
			return true
		}
		c := t.statusc
		t.statusm.Unlock()

		select {
		case <-c:
		case <-timer.C:
			return false
		}
	}
}

func (t *Ws) setStatus(status Status) {
	t.statusm.Lock()
	defer t.statusm.Unlock()

	if t.status == status || t.status == StatusClosed {
		return
	}

	t.printLog(GQL_INTERNAL, "STATUS", zap.Stringer("from", t.status), zap.Stringer("to", status))

	t.status = status
	close(t.statusc)
	t.statusc = make(chan struct{})
}

// Run will connect and attempt to reconnect until RetryTimeout is exhausted, then read
// messages until the connection drops, the context ends or Close is called
func (t *Ws) Run(ctx context.Context) error {
	t.initStruct()

	t.printLog(GQL_INTERNAL, "RUN")

	if t.Status() == StatusClosed {
		return nil
	}
	t.setStatus(StatusConnecting)

	conn, err := t.connect(ctx)
	if err != nil {
		t.setStatus(StatusDisconnected)
		return err
	}
	defer t.reset(conn)

	t.printLog(GQL_INTERNAL, "INIT DONE")

	for {
		var message OperationMessage
		if err := conn.ReadJSON(&message); err != nil {
			if ctx.Err() != nil || t.Status() == StatusClosed {
				return nil
			}

			t.printLog(GQL_INTERNAL, "READ ERR", zap.Error(err))

			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				// close event from websocket server, exiting...
				return nil
			}

			return fmt.Errorf("websocket read: %w", err)
		}

		if err := t.handle(message); err != nil {
			return err
		}
	}
}

func (t *Ws) handle(message OperationMessage) error {
	switch message.Type {
	case GQL_CONNECTION_ACK:
		t.printLog(GQL_CONNECTION_ACK, message.String())
		t.setStatus(StatusReady)

		t.opsm.Lock()
		pending := make(map[string]*wsResponse, len(t.ops))
		for id, op := range t.ops {
			if !op.started {
				pending[id] = op
			}
		}
		t.opsm.Unlock()

		for id, op := range pending {
			if err := t.startOperation(id, op); err != nil {
				t.printLog(GQL_INTERNAL, "ACK: START OP FAILED", zap.Error(err))
				return err
			}
		}
	case GQL_ERROR:
		t.printLog(GQL_ERROR, message.String())

		// an error ends the operation, no complete follows
		if op := t.getOperation(message.ID); op != nil {
			op.Send(OperationResponse{Errors: errorPayload(message.Payload)})
			t.completeOperation(message.ID)
		}
	case GQL_DATA:
		t.printLog(GQL_DATA, message.String())

		op := t.getOperation(message.ID)
		if op == nil {
			return nil
		}

		var out OperationResponse
		if err := json.Unmarshal(message.Payload, &out); err != nil {
			out.Errors = append(out.Errors, gqlerror.WrapPath(nil, err))
		}
		op.Send(out)
	case GQL_COMPLETE:
		t.printLog(GQL_COMPLETE, message.String())
		t.completeOperation(message.ID)
	case GQL_CONNECTION_ERROR:
		t.printLog(GQL_CONNECTION_ERROR, message.String())
		return fmt.Errorf("websocket connection error: %s", message.Payload)
	case GQL_CONNECTION_KEEP_ALIVE:
		t.printLog(GQL_CONNECTION_KEEP_ALIVE, message.String())
	default:
		t.printLog(GQL_UNKNOWN, message.String())
	}

	return nil
}

// errorPayload decodes the payload of an error message, servers send either a single error or a list
func errorPayload(payload json.RawMessage) gqlerror.List {
	var list gqlerror.List
	if err := json.Unmarshal(payload, &list); err == nil {
		return list
	}

	var single gqlerror.Error
	if err := json.Unmarshal(payload, &single); err == nil {
		return gqlerror.List{&single}
	}

	return gqlerror.List{gqlerror.Errorf("%s", payload)}
}

func (t *Ws) reset(conn WebsocketConn) {
	t.printLog(GQL_INTERNAL, "RESET")

	t.setConn(nil)
	_ = conn.Close()

	t.opsm.Lock()
	for _, op := range t.ops {
		op.started = false
	}
	t.opsm.Unlock()

	t.setStatus(StatusDisconnected)
}

func (t *Ws) Close() error {
	t.initStruct()

	t.printLog(GQL_INTERNAL, "CLOSE")

	t.setStatus(StatusClosed)

	t.opsm.Lock()
	ops := t.ops
	t.ops = map[string]*wsResponse{}
	started := make(map[string]bool, len(ops))
	for id, op := range ops {
		started[id] = op.started
	}
	t.opsm.Unlock()

	for id, op := range ops {
		if started[id] {
			_ = t.stopOperation(id)
		}
		op.CloseCh()
	}

	var err error

	if c := t.getConn(); c != nil {
		_ = t.terminate(c)
		err = c.Close()
		t.setConn(nil)
	}

	t.cancelm.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.cancelm.Unlock()

	return err
}

func (t *Ws) getOperation(id string) *wsResponse {
	t.opsm.Lock()
	defer t.opsm.Unlock()

	return t.ops[id]
}

// startOperation sends the start message of op unless it is already started.
// opsm is held while writing so that a concurrent unsubscribe either prevents the
// start or sends its stop after it.
func (t *Ws) startOperation(id string, op *wsResponse) error {
	t.opsm.Lock()
	defer t.opsm.Unlock()

	// op was unsubscribed or completed meanwhile
	if t.ops[id] != op || op.started {
		return nil
	}

	t.printLog(GQL_INTERNAL, "START OP", zap.String("id", id))

	payload, err := json.Marshal(NewOperationRequestFromRequest(op.Request))
	if err != nil {
		return err
	}

	msg := OperationMessage{
		ID:      id,
		Type:    GQL_START,
		Payload: payload,
	}

	t.printLog(GQL_START, msg.String())
	if err := t.write(msg); err != nil {
		t.printLog(GQL_INTERNAL, "GQL_START ERR", zap.Error(err))
		return err
	}

	op.started = true

	return nil
}

func (t *Ws) stopOperation(id string) error {
	msg := OperationMessage{
		ID:   id,
		Type: GQL_STOP,
	}

	t.printLog(GQL_STOP, msg.String())
	return t.write(msg)
}

// unsubscribe is called when the consumer closes its response
func (t *Ws) unsubscribe(id string) error {
	t.printLog(GQL_INTERNAL, "UNSUB", zap.String("id", id))

	t.opsm.Lock()
	op, ok := t.ops[id]
	if !ok {
		t.opsm.Unlock()
		return nil
	}
	delete(t.ops, id)
	started := op.started
	t.opsm.Unlock()

	if started && t.Status() == StatusReady {
		return t.stopOperation(id)
	}

	return nil
}

// completeOperation is called when the server is done with an operation
func (t *Ws) completeOperation(id string) {
	t.opsm.Lock()
	op, ok := t.ops[id]
	delete(t.ops, id)
	t.opsm.Unlock()

	if ok {
		op.CloseCh()
	}
}

func (t *Ws) terminate(conn WebsocketConn) error {
	// send terminate message to the server
	msg := OperationMessage{
		Type: GQL_CONNECTION_TERMINATE,
	}

	t.printLog(GQL_CONNECTION_TERMINATE, msg.String())
	return conn.WriteJSON(msg)
}

func (t *Ws) Request(req Request) Response {
	t.initStruct()

	t.printLog(GQL_INTERNAL, "REQ")

	if t.Status() == StatusClosed {
		return NewErrorResponse(ErrClosed)
	}

	if req.Context == nil {
		req.Context = context.Background()
	}

	id := strconv.FormatUint(atomic.AddUint64(&t.i, 1), 10)

	res := &wsResponse{
		Request: req,
	}
	res.ChanResponse = NewChanResponse(func() error {
		t.printLog(GQL_INTERNAL, "CLOSE RES", zap.String("id", id))
		return t.unsubscribe(id)
	})

	t.printLog(GQL_INTERNAL, "ADD TO OPS", zap.String("id", id))
	t.opsm.Lock()
	t.ops[id] = res
	t.opsm.Unlock()

	if t.Status() == StatusReady {
		if err := t.startOperation(id, res); err != nil {
			_ = t.unsubscribe(id)
			return NewErrorResponse(err)
		}
	}

	go func() {
		select {
		case <-req.Context.Done():
			t.printLog(GQL_INTERNAL, "CTX DONE", zap.String("id", id))
			res.Close()
		case <-res.Done():
		}
	}()

	return res
}

func (t *Ws) sendConnectionInit(conn WebsocketConn) error {
	var bParams []byte = nil
	if t.ConnectionParams != nil {
		var err error
		bParams, err = json.Marshal(t.ConnectionParams)
		if err != nil {
			return err
		}
	}

	msg := OperationMessage{
		Type:    GQL_CONNECTION_INIT,
		Payload: bParams,
	}

	t.printLog(GQL_CONNECTION_INIT, msg.String())
	return conn.WriteJSON(msg)
}

func (t *Ws) connect(ctx context.Context) (WebsocketConn, error) {
	t.printLog(GQL_INTERNAL, "INIT")

	start := time.Now()

	for {
		// allow custom websocket client
		conn, err := t.WebsocketConnProvider(ctx, t.URL)
		if err == nil {
			t.setConn(conn)

			err = t.sendConnectionInit(conn)
			if err == nil {
				return conn, nil
			}

			t.setConn(nil)
			_ = conn.Close()
		}

		if time.Since(start) > t.RetryTimeout {
			t.printLog(GQL_INTERNAL, "RetryTimeout exceeded", zap.Duration("retry_timeout", t.RetryTimeout))

			return nil, fmt.Errorf("%w: %v", ErrRetryTimeout, err)
		}

		t.printLog(GQL_INTERNAL, "retry", zap.Error(err), zap.Duration("in", t.RetryInterval))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.RetryInterval):
		}
	}
}

func (t *Ws) write(msg OperationMessage) error {
	conn := t.getConn()
	if conn == nil {
		return fmt.Errorf("websocket: not connected")
	}

	return conn.WriteJSON(msg)
}

func (t *Ws) printLog(typ OperationMessageType, msg string, fields ...zap.Field) {
	t.Logger.Debug(msg, append(fields, zap.String("type", string(typ)))...)
}

func (t *Ws) setConn(conn WebsocketConn) {
	t.connm.Lock()
	defer t.connm.Unlock()
	t.conn = conn
}

func (t *Ws) getConn() WebsocketConn {
	t.connm.RLock()
	defer t.connm.RUnlock()
	return t.conn
}

// GetConn returns the current connection, nil while disconnected
func (t *Ws) GetConn() WebsocketConn {
	return t.getConn()
}
