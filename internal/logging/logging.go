package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/taskconf/internal/config"
)

// Option adjusts the logger configuration before it is built.
type Option func(*zap.Config)

// WithLevel sets the minimum enabled level.
func WithLevel(level zapcore.Level) Option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
}

// WithOutput writes log entries to path ("stdout", "stderr" or a file).
// An empty path keeps the default.
func WithOutput(path string) Option {
	return func(cfg *zap.Config) {
		if path == "" {
			return
		}
		cfg.OutputPaths = []string{path}
	}
}

// New creates a production-ready structured logger configured for JSON output.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false
	for _, opt := range opts {
		opt(&cfg)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForDaemon creates a logger writing to the daemon's log file at its
// resolved severity. Extra options are applied last.
func ForDaemon(d config.Daemon, opts ...Option) (*zap.Logger, error) {
	base := []Option{WithLevel(Level(d.LogLevel)), WithOutput(d.LogFile)}
	return New(append(base, opts...)...)
}

// Level maps a daemon severity onto a zap level.
func Level(s config.Severity) zapcore.Level {
	switch s {
	case config.SeverityDebug:
		return zapcore.DebugLevel
	case config.SeverityInfo:
		return zapcore.InfoLevel
	case config.SeverityWarning:
		return zapcore.WarnLevel
	case config.SeverityError:
		return zapcore.ErrorLevel
	case config.SeverityCritical:
		return zapcore.DPanicLevel
	case config.SeverityFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
