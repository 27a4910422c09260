package transport

import (
	"context"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// nhooyrConn is the WebsocketConn of DefaultWebsocketConnProvider
type nhooyrConn struct {
	conn *websocket.Conn
	// ctx is the dial context, it bounds the connection lifetime
	ctx          context.Context
	writeTimeout time.Duration
}

func (c *nhooyrConn) WriteJSON(v interface{}) error {
	if c.writeTimeout <= 0 {
		return wsjson.Write(c.ctx, c.conn, v)
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.writeTimeout)
	defer cancel()

	return wsjson.Write(ctx, c.conn, v)
}

// ReadJSON has no deadline: an expired read context closes a nhooyr connection.
func (c *nhooyrConn) ReadJSON(v interface{}) error {
	return wsjson.Read(c.ctx, c.conn, v)
}

func (c *nhooyrConn) SetReadLimit(limit int64) {
	c.conn.SetReadLimit(limit)
}

func (c *nhooyrConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "close websocket")
}

type WsDialOption func(o *websocket.DialOptions)

// DefaultWebsocketConnProvider dials with the graphql-ws subprotocol.
// writeTimeout bounds each write, zero or less means writes are only bound by the dial context.
func DefaultWebsocketConnProvider(writeTimeout time.Duration, optionfs ...WsDialOption) WebsocketConnProvider {
	return func(ctx context.Context, URL string) (WebsocketConn, error) {
		options := &websocket.DialOptions{
			Subprotocols: []string{"graphql-ws"},
		}
		for _, f := range optionfs {
			f(options)
		}

		conn, _, err := websocket.Dial(ctx, URL, options)
		if err != nil {
			return nil, err
		}

		return &nhooyrConn{
			conn:         conn,
			ctx:          ctx,
			writeTimeout: writeTimeout,
		}, nil
	}
}
