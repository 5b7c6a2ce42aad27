package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("fpl-team-builder/internal/usecase")

// startUsecaseSpan opens a child span only under a traced request, so
// background callers like the batch validator stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// dependencyError wraps an upstream failure (FPL, LLM, storage) as
// ErrDependencyUnavailable and marks the current span failed.
func dependencyError(ctx context.Context, op string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err, trace.WithAttributes(attribute.String("usecase.op", op)))
		span.SetStatus(codes.Error, op)
	}
	return wrapped
}
