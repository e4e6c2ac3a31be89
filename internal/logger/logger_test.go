package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedactsSensitiveKeys(t *testing.T) {
	log, logs := observed()

	log.Info("login", "user", "alice", "password", "hunter2", "Authorization", "Bearer abc", "session_token", "xyz")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "alice", fields["user"])
	assert.Equal(t, "[REDACTED]", fields["password"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
	assert.Equal(t, "[REDACTED]", fields["session_token"])
}

func TestWithRedactsAndKeepsFields(t *testing.T) {
	log, logs := observed()

	log.With("component", "Orchestrator", "jwt_secret", "s3cret").Warn("careful")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "Orchestrator", fields["component"])
	assert.Equal(t, "[REDACTED]", fields["jwt_secret"])
}

func TestSanitizeOddKeyValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, out)
	assert.Empty(t, sanitizeKVs(nil))
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, log.SugaredLogger)
	}
}
