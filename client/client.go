package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/infiotinc/lmsgql/client/transport"
)

// ErrNoResponse is returned when the transport ends the response without a result
var ErrNoResponse = errors.New("no response")

// Client executes GraphQL operations through Transport.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	Transport transport.Transport
	// Wrapper is invoked once per operation, it defaults to DefaultWrapper
	Wrapper Wrapper
	// Header is sent with every operation, per-call headers take precedence
	Header http.Header
}

func (c *Client) wrapper() Wrapper {
	if c.Wrapper == nil {
		return DefaultWrapper
	}

	return c.Wrapper
}

func (c *Client) request(ctx context.Context, operation transport.Operation, operationName string, query string, variables map[string]interface{}, call *call, header http.Header) transport.Request {
	return transport.Request{
		Context:       ctx,
		Operation:     operation,
		Query:         query,
		OperationName: operationName,
		Variables:     variables,
		Extensions:    call.extensions,
		Header:        MergeHeaders(call.header, header),
	}
}

func (c *Client) do(ctx context.Context, operation transport.Operation, operationName string, query string, variables map[string]interface{}, t interface{}, opts []CallOption) error {
	call := newCall(c.Header, opts)

	info := OperationInfo{
		Name:      operationName,
		Kind:      operation,
		Variables: variables,
	}

	return c.wrapper()(ctx, func(ctx context.Context, header http.Header) error {
		return c.roundTrip(ctx, c.request(ctx, operation, operationName, query, variables, call, header), t)
	}, info)
}

func (c *Client) roundTrip(ctx context.Context, req transport.Request, t interface{}) error {
	res := c.Transport.Request(req)
	defer res.Close()

	go func() {
		select {
		case <-ctx.Done():
			res.Close()
		case <-res.Done():
		}
	}()

	ok := res.Next()
	if !ok {
		if err := res.Err(); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		return ErrNoResponse
	}

	opres := res.Get()
	err := opres.UnmarshalData(t)

	if len(opres.Errors) > 0 {
		return opres.Errors
	}

	return err
}

// Query runs a query
// operationName is optional
func (c *Client) Query(ctx context.Context, operationName string, query string, variables map[string]interface{}, t interface{}, opts ...CallOption) error {
	return c.do(ctx, transport.Query, operationName, query, variables, t, opts)
}

// Mutation runs a mutation
// operationName is optional
func (c *Client) Mutation(ctx context.Context, operationName string, query string, variables map[string]interface{}, t interface{}, opts ...CallOption) error {
	return c.do(ctx, transport.Mutation, operationName, query, variables, t, opts)
}

// Subscription starts a GQL subscription
// operationName is optional
func (c *Client) Subscription(ctx context.Context, operationName string, query string, variables map[string]interface{}, opts ...CallOption) (transport.Response, error) {
	call := newCall(c.Header, opts)

	info := OperationInfo{
		Name:      operationName,
		Kind:      transport.Subscription,
		Variables: variables,
	}

	var res transport.Response
	err := c.wrapper()(ctx, func(ctx context.Context, header http.Header) error {
		res = c.Transport.Request(c.request(ctx, transport.Subscription, operationName, query, variables, call, header))

		// An ErrorResponse is already done, anything else is still streaming
		select {
		case <-res.Done():
			if err := res.Err(); err != nil {
				return err
			}
		default:
		}

		go func() {
			select {
			case <-ctx.Done():
				res.Close()
			case <-res.Done():
			}
		}()

		return nil
	}, info)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Exec runs the operation described by d, dispatching on its kind
func (c *Client) Exec(ctx context.Context, d *Descriptor, variables map[string]interface{}, t interface{}, opts ...CallOption) error {
	switch d.Kind {
	case transport.Query, transport.Mutation:
		return c.do(ctx, d.Kind, d.Name, d.Document, variables, t, opts)
	}

	return &KindError{Descriptor: d}
}
