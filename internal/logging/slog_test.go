package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.key+"="+tc.val)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("reason", "token-expired", "user_id", 42).Info(context.Background(), "session ended")

	out := buf.String()
	for _, s := range []string{"level=INFO", `msg="session ended"`, "reason=token-expired", "user_id=42"} {
		assert.Contains(t, out, s)
	}
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", "text")
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.Info(context.Background(), "hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "text")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	log.With("a", 1).Info(ctx, "x")
}
