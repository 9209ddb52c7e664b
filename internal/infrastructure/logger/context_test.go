package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldMap(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		log := zap.NewExample()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns nop logger when missing", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithRequestID(context.Background(), zap.New(core), "req-1")
	log.Info("hello")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "req-1", fieldMap(recorded.All()[0])["request_id"])
}

func TestContextLogger(t *testing.T) {
	t.Run("adds user and trace ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-2")
		ctx = WithUserID(ctx, "user-9")

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}))

		L(ctx).Info("action")

		require.Len(t, recorded.All(), 1)
		fields := fieldMap(recorded.All()[0])
		assert.Equal(t, "req-2", fields["request_id"])
		assert.Equal(t, "user-9", fields["user_id"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	})

	t.Run("foreign logger gets request id once", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-3")

		WithLogger(ctx, zap.New(core)).With(zap.String("k", "v")).Warn("warned")

		require.Len(t, recorded.All(), 1)
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		count := 0
		for _, f := range entry.Context {
			if f.Key == "request_id" {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.Equal(t, "v", fieldMap(entry)["k"])
	})

	t.Run("no trace id without span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})
}
