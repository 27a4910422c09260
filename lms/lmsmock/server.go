// Package lmsmock serves the LMS GraphQL API from per-operation mock handlers.
//
// Incoming documents are parsed and validated against the LMS schema by gqlgen,
// then dispatched to the handler registered under the operation name.
package lmsmock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	htransport "github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/gorilla/websocket"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/client/transport"
	"github.com/infiotinc/lmsgql/lms"
)

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: lms.Schema})

// Resolver answers a query or a mutation, the result is encoded as the response data
type Resolver func(ctx context.Context, variables map[string]interface{}) (interface{}, error)

// Subscriber answers a subscription, every value received from the channel is one event
type Subscriber func(ctx context.Context, variables map[string]interface{}) (<-chan interface{}, error)

// Handler intercepts one operation by name
type Handler struct {
	Name      string
	Kind      transport.Operation
	Resolve   Resolver
	Subscribe Subscriber
}

func Query(name string, resolve Resolver) Handler {
	return Handler{Name: name, Kind: transport.Query, Resolve: resolve}
}

func Mutation(name string, resolve Resolver) Handler {
	return Handler{Name: name, Kind: transport.Mutation, Resolve: resolve}
}

func Subscription(name string, subscribe Subscriber) Handler {
	return Handler{Name: name, Kind: transport.Subscription, Subscribe: subscribe}
}

type Server struct {
	*handler.Server

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	handlers map[string]Handler
	m        sync.RWMutex
}

func NewServer(handlers ...Handler) *Server {
	s := &Server{
		Logger:   zap.NewNop(),
		handlers: map[string]Handler{},
	}

	s.Server = handler.New(&graphql.ExecutableSchemaMock{
		SchemaFunc: func() *ast.Schema {
			return schema
		},
		ComplexityFunc: func(typeName string, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
			return 0, false
		},
		ExecFunc: s.exec,
	})

	s.Server.AddTransport(htransport.POST{})
	s.Server.AddTransport(htransport.Websocket{
		KeepAlivePingInterval: 10 * time.Second,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	})

	s.Handle(handlers...)

	return s
}

// Handle registers handlers, replacing any handler already registered for the same operation
func (s *Server) Handle(handlers ...Handler) {
	s.m.Lock()
	defer s.m.Unlock()

	for _, h := range handlers {
		s.handlers[h.Name] = h
	}
}

// Reset drops every handler
func (s *Server) Reset() {
	s.m.Lock()
	defer s.m.Unlock()

	s.handlers = map[string]Handler{}
}

// Validate checks that every handler intercepts an operation of catalog with the same kind
func (s *Server) Validate(catalog *client.Catalog) error {
	s.m.RLock()
	defer s.m.RUnlock()

	for name, h := range s.handlers {
		d, ok := catalog.Lookup(name)
		if !ok {
			return fmt.Errorf("mock handler for unknown operation %q", name)
		}

		if d.Kind != h.Kind {
			return fmt.Errorf("mock handler for %s is a %s", d, h.Kind)
		}
	}

	return nil
}

func (s *Server) lookup(name string) (Handler, bool) {
	s.m.RLock()
	defer s.m.RUnlock()

	h, ok := s.handlers[name]
	return h, ok
}

func (s *Server) exec(ctx context.Context) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)
	name := oc.Operation.Name
	kind := transport.Operation(oc.Operation.Operation)

	s.Logger.Debug("mock operation", zap.String("operation", name), zap.String("kind", string(kind)))

	h, ok := s.lookup(name)
	if !ok {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "no mock handler for %s %s", kind, name))
	}

	if h.Kind != kind {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "mock handler for %s is a %s, got a %s", name, h.Kind, kind))
	}

	if kind != transport.Subscription {
		if h.Resolve == nil {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "mock handler for %s %s has no resolver", kind, name))
		}

		data, err := h.Resolve(ctx, oc.Variables)
		return graphql.OneShot(s.response(data, err))
	}

	if h.Subscribe == nil {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "mock handler for %s %s has no subscriber", kind, name))
	}

	ch, err := h.Subscribe(ctx, oc.Variables)
	if err != nil {
		return graphql.OneShot(s.response(nil, err))
	}

	return func(ctx context.Context) *graphql.Response {
		select {
		case v, ok := <-ch:
			if !ok {
				return nil
			}

			return s.response(v, nil)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Server) response(data interface{}, err error) *graphql.Response {
	if err != nil {
		s.Logger.Debug("mock operation failed", zap.Error(err))

		return &graphql.Response{Errors: transport.ErrorList(err)}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("mock response: %v", err)}}
	}

	return &graphql.Response{Data: b}
}

// decodeVariables converts validated request variables into the typed variables of an operation
func decodeVariables(variables map[string]interface{}, v interface{}) error {
	if len(variables) == 0 {
		return nil
	}

	b, err := json.Marshal(variables)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}
