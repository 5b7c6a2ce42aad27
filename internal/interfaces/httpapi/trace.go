package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("fpl-team-builder/internal/interfaces/httpapi")

// startHandlerSpan opens "httpapi.Handler.<method>" under the otelhttp server
// span. Requests excluded from tracing (trials, /metrics) get the inert span
// already on the context.
func startHandlerSpan(ctx context.Context, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+method, trace.WithAttributes(attrs...))
}
