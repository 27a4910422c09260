package instrument

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/infiotinc/lmsgql/client"
)

const tracerName = "github.com/infiotinc/lmsgql/instrument"

var (
	AttrOperationName = attribute.Key("graphql.operation.name")
	AttrOperationType = attribute.Key("graphql.operation.type")
	AttrOutcome       = attribute.Key("graphql.outcome")
)

// Tracing starts a client span per operation and injects its context into the request headers.
// A nil tp or prop falls back to the otel globals.
func Tracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) client.Wrapper {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}

	tracer := tp.Tracer(tracerName)

	return func(ctx context.Context, action client.Action, op client.OperationInfo) error {
		ctx, span := tracer.Start(ctx, string(op.Kind)+" "+op.Name,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				AttrOperationName.String(op.Name),
				AttrOperationType.String(string(op.Kind)),
			),
		)
		defer span.End()

		h := http.Header{}
		prop.Inject(ctx, propagation.HeaderCarrier(h))

		err := action(ctx, h)

		span.SetAttributes(AttrOutcome.String(string(Classify(err))))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
