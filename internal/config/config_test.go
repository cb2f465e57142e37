package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, 10, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Auth.SessionTTLMinutes)
	assert.Equal(t, 10, cfg.Upload.MaxFileSizeMB)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINANCETRACK_SERVER_PORT", "9090")
	t.Setenv("FINANCETRACK_LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/financetrack_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "postgres://localhost:5432/financetrack_test", cfg.Database.URL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FINANCETRACK_SERVER_PORT", "99999")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	t.Setenv("FINANCETRACK_LOG_FORMAT", "xml")
	_, err := Load()
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := cfg.ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	// An unknown level falls back to info instead of failing
	cfg.Log.Level = "chatty"
	cfg.Log.Format = "text"
	logger = cfg.ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
