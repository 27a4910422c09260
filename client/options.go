package client

import (
	"net/http"

	"github.com/infiotinc/lmsgql/client/transport"
)

// call is the caller side of the invocation context
type call struct {
	header     http.Header
	extensions transport.Extensions
}

type CallOption func(c *call)

// WithHeader sets a header for a single call
func WithHeader(key, value string) CallOption {
	return func(c *call) {
		c.header.Set(key, value)
	}
}

// WithHeaders overlays h on the headers of a single call
func WithHeaders(h http.Header) CallOption {
	return func(c *call) {
		for k, vs := range h {
			c.header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// WithExtension adds a GraphQL request extension
func WithExtension(name string, value interface{}) CallOption {
	return func(c *call) {
		c.extensions.Set(name, value)
	}
}

func newCall(base http.Header, opts []CallOption) *call {
	c := &call{
		header: MergeHeaders(base, nil),
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// MergeHeaders returns a new header set holding base overlaid by overlay.
// A key present in overlay replaces all values of that key in base.
func MergeHeaders(base, overlay http.Header) http.Header {
	h := make(http.Header, len(base)+len(overlay))

	for k, vs := range base {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	for k, vs := range overlay {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	return h
}
