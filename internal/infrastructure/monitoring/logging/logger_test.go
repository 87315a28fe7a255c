package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format, ServiceName: "patentbot"})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("search completed",
		SessionID("sess-1"),
		Int("results", 3),
		Float64("top_score", 0.812),
		Bool("semantic", true),
		Duration("elapsed", 250*time.Millisecond),
		Err(errors.New("boom")),
		Any("tokens", []string{"wireless", "charging"}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search completed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "sess-1", ctx["session_id"])
	assert.Equal(t, int64(3), ctx["results"])
	assert.Equal(t, 0.812, ctx["top_score"])
	assert.Equal(t, true, ctx["semantic"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	child := l.Named("search").With(RequestID("req-9"))
	child.Debug("dropped")
	child.Warn("retrieval failed")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search", entry.LoggerName)
	assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.NotNil(t, l.With(String("k", "v")))
	assert.NotNil(t, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	l, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(nil)
	assert.Equal(t, original, Default())
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestContextLogger(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)
	fallback := NewNopLogger()

	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	ctx := WithContext(context.Background(), l)
	FromContext(ctx, fallback).Info("from ctx")
	assert.Equal(t, 1, logs.Len())
}
