package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapterLevels(t *testing.T) {
	adapter, ok := NewLogrusAdapter("debug", "json").(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, adapter.logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, adapter.logger.Formatter)

	// Invalid levels fall back to info
	adapter, ok = NewLogrusAdapter("verbose", "text").(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, adapter.logger.GetLevel())
}

func TestLogrusAdapterWritesFields(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	adapter := NewLogrusAdapterFromLogger(logger)
	adapter.WithField("account_id", 7).WithError(errors.New("boom")).Warn("upload failed", F("line", 3))

	out := buf.String()
	assert.Contains(t, out, `"account_id":7`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"line":3`)
	assert.Contains(t, out, "upload failed")
}

func TestMockLoggerSharesEntriesWithDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("first")
	mock.WithError(errors.New("oops")).WithField("id", 1).Warn("second")

	entries := mock.Entries()
	require.Len(t, entries, 2, "entries from derived loggers land on the parent")
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "second", entries[1].Message)
	assert.EqualError(t, entries[1].Error, "oops")
	assert.True(t, mock.HasMessage("second"))
	assert.False(t, mock.HasMessage("third"))
}
