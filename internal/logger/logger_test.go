package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })
	return logs
}

func TestCommandIDRoundTrip(t *testing.T) {
	ctx := WithCommandID(context.Background(), "abc123")
	assert.Equal(t, "abc123", CommandID(ctx))
	assert.Empty(t, CommandID(context.Background()))
}

func TestHelpersTagCommandID(t *testing.T) {
	logs := observe(t)
	ctx := WithCommandID(context.Background(), "cmd-1")

	Info(ctx, "hello", zap.String("k", "v"))
	Error(ctx, "boom", errors.New("disk full"))
	Warn(context.Background(), "untagged")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "cmd-1", entries[0].ContextMap()["command_id"])
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
	assert.Equal(t, "unknown", entries[2].ContextMap()["command_id"])
}
