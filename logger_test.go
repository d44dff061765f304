package firebasemiddleware

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)

	logger := NewLogrusLogger(base)

	logger.Debug("debug message", "kid", "abc")
	assert.Empty(t, hook.AllEntries(), "debug should be filtered at info level")

	logger.Info("info message")
	logger.Warn("warn message", "category", "expired", "duration", 3)
	logger.Error("error message", "cause", "boom")

	entries := hook.AllEntries()
	require.Len(t, entries, 3)

	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Empty(t, entries[0].Data)

	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.Fields{"category": "expired", "duration": 3}, entries[1].Data)

	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].Data["cause"])
}

func TestFields(t *testing.T) {
	assert.Equal(t, logrus.Fields{"a": 1, "2": "b"}, fields([]any{"a", 1, 2, "b"}))
	assert.Equal(t, logrus.Fields{"a": 1, "!BADKEY": "dangling"}, fields([]any{"a", 1, "dangling"}))
}
