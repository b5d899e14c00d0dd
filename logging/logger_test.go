package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type bufferSyncer struct {
	bytes.Buffer
}

func (b *bufferSyncer) Sync() error { return nil }

func TestRedact(t *testing.T) {
	assert.Equal(t, "Authorization: bearer [redacted]", Redact("Authorization: bearer 4de0d941feff.af19"))
	assert.Equal(t, "Bearer [redacted] sent", Redact("Bearer abc/def== sent"))
	assert.Equal(t, "no token here", Redact("no token here"))
}

func TestLoggerRedactsBearerValues(t *testing.T) {
	buf := &bufferSyncer{}
	logger := newLogger(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, zapcore.InfoLevel)

	logger.Info("request failed", zap.String("header", "bearer secret-token"))

	m := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	assert.Equal(t, "bearer [redacted]", m["header"])
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestLoggerHonoursLevel(t *testing.T) {
	buf := &bufferSyncer{}
	logger := newLogger(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, zapcore.InfoLevel)

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
}
