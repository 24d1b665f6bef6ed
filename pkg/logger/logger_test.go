package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsletter/pkg/logger"
)

func TestNew_AddsRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info"}, &buf, logger.RunIDExtractor())

	ctx := logger.WithRunID(context.Background(), "run-123")
	log.InfoContext(ctx, "digest fetched", slog.Int("bytes", 42))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "digest fetched", rec["msg"])
	assert.Equal(t, "run-123", rec["run_id"])
	assert.EqualValues(t, 42, rec["bytes"])
}

func TestNew_NoRunIDWithoutContextValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{}, &buf, logger.RunIDExtractor(), nil)

	log.InfoContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "run_id")
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn"}, &buf)

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text"}, &buf)

	log.Info("plain", slog.String("k", "v"))

	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=plain"), out)
	assert.Contains(t, out, "k=v")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestNewWithSentry_EmptyDSNFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{}, &buf)

	log.Error("boom", slog.Any("error", errors.New("x")))

	assert.Contains(t, buf.String(), "boom")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	require.NotNil(t, log)
	log.Error("ignored")
}
