package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithUser(t *testing.T) {
	buf := captureDefault(t)

	WithUser("u1").Info("authenticated")

	assert.Contains(t, buf.String(), "user_id=u1")
	assert.Contains(t, buf.String(), "authenticated")
}

func TestWithError(t *testing.T) {
	buf := captureDefault(t)

	WithError(errors.New("boom")).Warn("operation failed")

	assert.Contains(t, buf.String(), "error=boom")
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	InitLogger("debug", "json")

	assert.NotNil(t, Logger)
	assert.True(t, Logger.Enabled(context.Background(), slog.LevelDebug))
}
