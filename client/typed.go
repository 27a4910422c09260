package client

import (
	"context"

	"github.com/infiotinc/lmsgql/client/transport"
)

// Do runs a query or mutation and decodes its data into a new T
func Do[T any](ctx context.Context, c *Client, d *Descriptor, variables map[string]interface{}, opts ...CallOption) (*T, error) {
	var res T
	if err := c.Exec(ctx, d, variables, &res, opts...); err != nil {
		return nil, err
	}

	return &res, nil
}

// Message is one event of a subscription
type Message[T any] struct {
	Data  *T
	Error error
}

// Subscribe starts a subscription and decodes each event into a Message.
// The channel is closed when the server completes the subscription or ctx ends.
func Subscribe[T any](ctx context.Context, c *Client, d *Descriptor, variables map[string]interface{}, opts ...CallOption) (<-chan Message[T], error) {
	if d.Kind != transport.Subscription {
		return nil, &KindError{Descriptor: d}
	}

	res, err := c.Subscription(ctx, d.Name, d.Document, variables, opts...)
	if err != nil {
		return nil, err
	}

	ch := make(chan Message[T])

	go func() {
		defer close(ch)
		defer res.Close()

		send := func(m Message[T]) bool {
			select {
			case ch <- m:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for res.Next() {
			opres := res.Get()

			var m Message[T]
			if len(opres.Errors) > 0 {
				m.Error = opres.Errors
			} else {
				var data T
				if err := opres.UnmarshalData(&data); err != nil {
					m.Error = err
				} else {
					m.Data = &data
				}
			}

			if !send(m) {
				return
			}
		}

		if err := res.Err(); err != nil {
			send(Message[T]{Error: err})
		}
	}()

	return ch, nil
}
