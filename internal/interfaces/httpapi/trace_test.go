package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartHandlerSpan_UntracedRequestStaysInert(t *testing.T) {
	ctx := context.Background()
	got, span := startHandlerSpan(ctx, "ValidateDraft")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
}

func TestStartHandlerSpan_NamesChildAfterHandler(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, server := provider.Tracer("test").Start(context.Background(), "POST /v1/teams/validate")
	_, span := startHandlerSpan(ctx, "ValidateDraft")
	assert.True(t, span.SpanContext().IsValid())
	assert.Equal(t, server.SpanContext().TraceID(), span.SpanContext().TraceID())
	span.End()
	server.End()

	require.GreaterOrEqual(t, len(recorder.Started()), 1)
}
