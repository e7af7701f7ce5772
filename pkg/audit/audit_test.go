package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
}

func TestCandidateCreatedMasksEmail(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithZap(zap.New(core), "hirepath-api", "test")

	l.CandidateCreated("req-1", "c-1", "jane@example.com")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "candidate_created", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "hirepath-api", fields["service"])
	assert.Equal(t, "c-1", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Contains(t, fields["details"], "j***@example.com")
	assert.NotContains(t, fields["details"], "jane@")
}

func TestRateLimitIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(zap.New(core), "hirepath-api", "test")

	l.RateLimitTriggered("", "10.0.0.1", "/api/candidates")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.CandidateDeleted("r", "id")
		_ = l.Sync()
	})
}
