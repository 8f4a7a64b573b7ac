package config

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger wraps zap with otelzap so log entries carry trace correlation.
type AppLogger struct {
	Logger      *otelzap.Logger
	serviceName string
}

func NewAppLogger(serviceName string, production bool) (*AppLogger, error) {
	cfg := zap.NewProductionConfig()

	if !production {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := cfg.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &AppLogger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
	}, nil
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *AppLogger) Zap() *zap.Logger {
	return l.Logger.Logger
}
