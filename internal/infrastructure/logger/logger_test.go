package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewBuildsConsoleLogger(t *testing.T) {
	l, err := New(config.LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, l)

	child := l.WithComponent("store")
	assert.NotSame(t, l.SugaredLogger, child.SugaredLogger)
}

func TestBuildConfigOutputs(t *testing.T) {
	cfg, err := buildConfig(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: "/tmp/app.log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/app.log"}, cfg.OutputPaths)
	assert.Equal(t, "time", cfg.EncoderConfig.TimeKey)

	cfg, err = buildConfig(config.LoggerConfig{Level: "warn", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
}

func TestLogSecurityEventFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromCore(core)

	l.LogSecurityEvent("login_failed", "", "10.0.0.1", map[string]interface{}{"email": "ada@example.com"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "login_failed", fields["security_event"])
	assert.Equal(t, "10.0.0.1", fields["ip"])
	assert.Equal(t, "ada@example.com", fields["email"])
}

func TestLogUserActionAndFallback(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromCore(core).WithComponent("services")

	l.LogUserAction("u-1", "delete_task", map[string]interface{}{"task_id": "t-9"})
	l.LogStoreFallback("tasks", "find", errors.New("connection refused"))

	require.Equal(t, 2, logs.Len())

	action := logs.All()[0].ContextMap()
	assert.Equal(t, "services", action["component"])
	assert.Equal(t, "delete_task", action["action"])
	assert.Equal(t, "t-9", action["task_id"])

	fallback := logs.FilterMessage("Remote store failed, serving from memory").All()
	require.Len(t, fallback, 1)
	assert.Equal(t, "tasks", fallback[0].ContextMap()["collection"])
}
