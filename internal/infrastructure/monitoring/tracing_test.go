package monitoring

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/fedicore/internal/config"
	"github.com/turtacn/fedicore/pkg/logger"
)

func newRecordingManager() (*TracingManager, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracingManagerWithProvider(provider, logger.NewNoopLogger()), recorder
}

func TestTracingManager_RecordError(t *testing.T) {
	tm, recorder := newRecordingManager()

	ctx, span := tm.StartSpan(context.Background(), "federation.deliver")
	tm.RecordError(ctx, stderrors.New("boom"), map[string]interface{}{"inbox": "https://remote.example/inbox", "attempt": 1})
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "federation.deliver", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestTracingManager_PropagationRoundTrip(t *testing.T) {
	tm, _ := newRecordingManager()

	ctx, span := tm.StartSpan(context.Background(), "outbound")
	defer span.End()

	header := http.Header{}
	tm.InjectTraceContext(ctx, propagation.HeaderCarrier(header))
	require.NotEmpty(t, header.Get("traceparent"))

	remote := tm.ExtractTraceContext(context.Background(), propagation.HeaderCarrier(header))
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(remote).TraceID())
}

func TestNewTracingManager_Disabled(t *testing.T) {
	tm, err := NewTracingManager(&config.Config{}, logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.StartSpan(context.Background(), "unrecorded")
	assert.False(t, span.IsRecording())
	tm.RecordError(ctx, stderrors.New("ignored"), nil)
	span.End()

	assert.NoError(t, tm.Shutdown(context.Background()))
}
