package logr

import (
	"bytes"
	"errors"
	"testing"

	"log/slog"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name string
		min  slog.Leveler
		log  func(logger logr.Logger)
		want string
	}{
		{
			"info",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Info("issued link", "id", "abc123")
			},
			"level=INFO msg=\"issued link\" id=abc123\n",
		},
		{
			"error",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Error(errors.New("woops"), "rejected fetch", "id", "abc123")
			},
			"level=ERROR msg=\"rejected fetch\" error=woops id=abc123\n",
		},
		{
			"debug",
			slog.LevelDebug,
			func(logger logr.Logger) {
				logger.V(1).Info("something", "foo", "bar")
			},
			"level=DEBUG msg=something foo=bar\n",
		},
		{
			"hide debug",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.V(1).Info("should not see this", "foo", "bar")
			},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bytes.Buffer
			logger := logr.New(newLogSink(slog.NewTextHandler(&got, newTestOptions(tt.min))))
			tt.log(logger)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&Config{Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("started server")
		assert.Contains(t, buf.String(), `"msg":"started server"`)
		assert.Equal(t, JSONFormat, logger.Format)
	})

	t.Run("verbosity", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&Config{Format: "text", Verbosity: 2}, &buf)
		require.NoError(t, err)

		logger.V(2).Info("verbose")
		logger.V(3).Info("too verbose")
		assert.Contains(t, buf.String(), "verbose")
		assert.NotContains(t, buf.String(), "too verbose")
	})

	t.Run("unrecognised format", func(t *testing.T) {
		_, err := New(&Config{Format: "xml"})
		assert.Error(t, err)
	})
}

func newTestOptions(min slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: min,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
}
