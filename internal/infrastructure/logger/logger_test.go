package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestNew(t *testing.T) {
	t.Run("creates logger with nil config", func(t *testing.T) {
		log, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("creates json logger", func(t *testing.T) {
		log, err := New(&Config{Level: "debug", Format: "json", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("respects configured level", func(t *testing.T) {
		log, err := New(&Config{Level: "error", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prod)

	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, dev)
}

func TestContextHelpers(t *testing.T) {
	log := zap.NewNop()
	ctx := context.Background()

	t.Run("FromContext returns no-op when absent", func(t *testing.T) {
		assert.NotNil(t, FromContext(ctx))
	})

	t.Run("WithContext round-trips the logger", func(t *testing.T) {
		ctx := WithContext(ctx, log)
		assert.Equal(t, log, FromContext(ctx))
	})

	t.Run("WithRequestID stores the ID", func(t *testing.T) {
		ctx, enriched := WithRequestID(ctx, log, "req-123")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("WithUserID stores the ID", func(t *testing.T) {
		ctx, _ := WithUserID(ctx, log, "user-456")
		assert.Equal(t, "user-456", GetUserID(ctx))
	})

	t.Run("missing values return empty strings", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
		assert.Empty(t, GetUserID(context.Background()))
	})
}
