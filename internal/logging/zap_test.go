package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		assert.Equal(t, levels[i], e.Level)
		assert.Len(t, e.Context, 1)
	}
	assert.Equal(t, "inf", entries[1].Message)
	assert.Equal(t, int64(2), entries[1].ContextMap()["b"])
}

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("module", "http")

	log.Info(context.Background(), "hello", "k", "v")

	entries := logs.FilterMessage("hello").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "http", fields["module"])
	assert.Equal(t, "v", fields["k"])
}

func TestZapLogger_RequestIDFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core))

	log.Info(WithRequestID(context.Background(), "req-7"), "served", "status_code", 200)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(200), entries[0].ContextMap()["status_code"])
}

func TestNew_Backends(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &SlogLogger{}, l)

	l, err = New(BackendZap)
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, l)

	_, err = New("logrus")
	assert.Error(t, err)
}
