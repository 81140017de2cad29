package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger for the given environment: JSON output in
// production, human-readable console output everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// NewNamed builds a logger carrying the service name on every entry.
func NewNamed(env, service string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
