package recurly

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := NewSlogLogger(slog.New(handler))

	logger.Debug("hidden", map[string]interface{}{"a": 1})
	logger.Info("HTTP Response", map[string]interface{}{"status": 200})
	logger.Error("API Response Error", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="HTTP Response" status=200`)
	assert.Contains(t, out, `level=ERROR msg="API Response Error"`)
}

func TestNewSlogLogger_DefaultsToSlogDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, NewSlogLogger(nil).logger)
}

func TestNoopLogger(t *testing.T) {
	t.Parallel()

	var logger Logger = NoopLogger{}

	assert.NotPanics(t, func() {
		logger.Warn("ignored", map[string]interface{}{"key": "value"})
	})
}
