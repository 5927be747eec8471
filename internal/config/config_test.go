package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_InvalidExpiryFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{Env: "production", LogLevel: "debug"}

	logger, err := cfg.Logger()

	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestConfig_Logger_BadLevelDefaultsToInfo(t *testing.T) {
	cfg := &Config{Env: "development", LogLevel: "loud"}

	logger, err := cfg.Logger()

	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
