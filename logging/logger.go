// Package logging предоставляет общий логгер для всех пакетов.
package logging

import (
	"io"
	"os"
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var L *zap.Logger = zap.NewNop()

// Initialize заменяет L логгером с уровнем -v: 0 — info, 1 и выше — debug.
func Initialize(v int) *zap.Logger {
	var (
		encoder zapcore.Encoder
		writer  zapcore.WriteSyncer
	)

	if term.IsTerminal(int(os.Stderr.Fd())) {
		encoder = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey: "message",

			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalColorLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.ISO8601TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		})
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	writer = zapcore.Lock(os.Stderr)

	L = newLogger(encoder, writer, zapcore.Level(-v))
	return L
}

func newLogger(encoder zapcore.Encoder, writer zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(encoder, &redactingSyncer{WriteSyncer: writer}, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller())
}

var bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`)

// Redact заменяет значения bearer токенов в строке.
func Redact(s string) string {
	return bearerPattern.ReplaceAllString(s, "${1}[redacted]")
}

type redactingSyncer struct {
	zapcore.WriteSyncer
}

func (r *redactingSyncer) Write(p []byte) (int, error) {
	if _, err := r.WriteSyncer.Write([]byte(Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}

var _ io.Writer = (*redactingSyncer)(nil)
