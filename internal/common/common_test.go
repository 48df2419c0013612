package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("trained", "label", "7")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"label":"7"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUserError(t *testing.T) {
	inner := errors.New("no such file")
	err := NewUserError("could not open pattern database", inner)

	assert.Equal(t, "could not open pattern database: no such file", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "plain", (&UserError{UserMessage: "plain"}).Error())
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("retries busy errors", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, func() error {
			attempts++
			if attempts < 3 {
				return ErrBusy
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		attempts := 0
		boom := errors.New("boom")
		err := WithRetry(ctx, func() error {
			attempts++
			return boom
		}, opts)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up", func(t *testing.T) {
		err := WithRetry(ctx, func() error {
			return &RetryableError{Err: errors.New("flaky"), Retryable: true}
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
	})
}
