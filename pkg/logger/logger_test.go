package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestRequestIDContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "01HZZZ")
	assert.Equal(t, "01HZZZ", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Same(t, Log, FromContext(context.Background()))
	assert.NotSame(t, Log, FromContext(ctx))
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Log
	t.Cleanup(func() { Log = prev })
	var buf bytes.Buffer
	Log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf
}

func TestGormLogger_Trace(t *testing.T) {
	buf := captureLog(t)
	gl := NewGormLogger(gormlogger.Warn, 10*time.Millisecond)
	ctx := ContextWithRequestID(context.Background(), "01HREQ")
	query := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	gl.Trace(ctx, time.Now(), query, errors.New("relation does not exist"))
	assert.Contains(t, buf.String(), "SQL error")
	assert.Contains(t, buf.String(), "request_id=01HREQ")

	buf.Reset()
	gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "Slow SQL")

	buf.Reset()
	gl.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String())

	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Empty(t, buf.String())
}
