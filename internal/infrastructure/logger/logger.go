// Package logger is the structured logger shared by every layer. It wraps a
// zap sugared logger and adds the few event shapes the suite logs repeatedly.
package logger

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
)

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger from cfg. Format "json" selects the production
// encoder; anything else logs human-readable lines with stack traces.
func New(cfg config.LoggerConfig) (*Logger, error) {
	zapConfig, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func buildConfig(cfg config.LoggerConfig) (zap.Config, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "time"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zapConfig, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch {
	case cfg.Output == "file" && cfg.Filename != "":
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	case cfg.Output == "stderr":
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}
	return zapConfig, nil
}

// FromCore wraps an existing zap core, e.g. an observer in tests
func FromCore(core zapcore.Core) *Logger {
	return &Logger{SugaredLogger: zap.New(core, zap.AddCaller()).Sugar()}
}

// NewNop returns a logger that discards everything. Used by tests and CLI
// commands that run before configuration is available.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// WithComponent tags every entry with the emitting subsystem
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogStoreFallback records a remote store failure that was served from memory
func (l *Logger) LogStoreFallback(collection, op string, err error) {
	l.Warnw("Remote store failed, serving from memory",
		"collection", collection,
		"op", op,
		"error", err.Error(),
	)
}

// LogUserAction records a business event performed by a user
func (l *Logger) LogUserAction(userID, action string, metadata map[string]interface{}) {
	l.Infow("User action", withMetadata([]interface{}{
		"user_id", userID,
		"action", action,
	}, metadata)...)
}

// LogSecurityEvent records an authentication or authorization failure
func (l *Logger) LogSecurityEvent(event, userID, ip string, details map[string]interface{}) {
	l.Warnw("Security event", withMetadata([]interface{}{
		"security_event", event,
		"user_id", userID,
		"ip", ip,
	}, details)...)
}

// withMetadata appends extra in key order so entries are stable
func withMetadata(fields []interface{}, extra map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, extra[k])
	}
	return fields
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
