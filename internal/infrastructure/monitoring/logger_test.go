package monitoring

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/fedicore/internal/config"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/logger"
)

func newObservedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	atomicLevel := zap.NewAtomicLevelAt(level)
	core, logs := observer.New(atomicLevel)
	return newZapLogger(core, atomicLevel), logs
}

func TestZapLogger_ContextFields(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = context.WithValue(ctx, constants.ContextKeyRequestID, "req-1")

	log.WithComponent("key_vault").Info(ctx, "Generated keypair", logger.String("username", "alice"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "key_vault", fields["component"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "alice", fields["username"])
}

func TestZapLogger_RedactsSensitiveFields(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)

	log.Error(context.Background(), "Signing failed", stderrors.New("boom"),
		logger.String("private_key", "MIIE..."),
		logger.String("signature", "abc"),
		logger.String("key_id", "https://example.com/users/alice#main-key"),
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "***REDACTED***", fields["private_key"])
	assert.Equal(t, "***REDACTED***", fields["signature"])
	assert.Equal(t, "https://example.com/users/alice#main-key", fields["key_id"])
	assert.Equal(t, "boom", fields["error"])
}

func TestZapLogger_SetLevel(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	assert.Equal(t, 0, logs.Len())

	require.NoError(t, log.SetLevel("debug"))
	assert.Equal(t, "debug", log.Level())
	log.WithFields(logger.Int("n", 1)).Debug(ctx, "visible")
	assert.Equal(t, 1, logs.Len())

	assert.Error(t, log.SetLevel("loud"))
}

func TestNewZapLogger(t *testing.T) {
	log, err := NewZapLogger(&config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "warn", log.Level())

	log, err = NewZapLogger(&config.LogConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.Equal(t, "info", log.Level())
}
