package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter(t *testing.T) {
	restoreDefault(t)

	buf := &logger.TestLogBuffer{}
	log := logger.SetupWithWriter("warn", buf)
	require.NotNil(t, log)
	assert.Same(t, log, slog.Default(), "Setup should install the default logger")

	log.Info("dropped")
	log.Warn("kept", slog.String("card_id", "abc"))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "abc", entries[0]["card_id"])
}

func TestSetupWithWriter_InvalidLevel(t *testing.T) {
	restoreDefault(t)

	buf := &logger.TestLogBuffer{}
	log := logger.SetupWithWriter("verbose", buf)

	logger.AssertLogContains(t, buf, "invalid log level configured")
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"fatal", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tc.name)
			assert.Equal(t, tc.level, level)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	customLogger, _ := logger.GetTestLogger(t)

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract under test
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Same(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		ctx, buf := logger.NewLogCaptureContext(t)

		logger.FromContext(ctx).Info("from context")
		logger.AssertLogContains(t, buf, "from context")
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}
