package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production JSON logger at the given level. Unknown or empty
// levels fall back to info so a typo in LOG_LEVEL never prevents startup.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(strings.ToLower(strings.TrimSpace(level))); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}

// ForService is New plus a permanent "service" field on every entry.
func ForService(level, service string) (*zap.Logger, error) {
	log, err := New(level)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", service)), nil
}
