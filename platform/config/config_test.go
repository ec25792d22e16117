package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("APP_TIMEZONE", "America/Chicago")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("ALERT_SCAN_INTERVAL", "15m")
	t.Setenv("ALERT_DEDUP_TTL", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Chicago", cfg.GetLocation().String())
	assert.Equal(t, 15*time.Minute, cfg.GetAlertScanInterval())
	assert.Equal(t, 24*time.Hour, cfg.GetAlertDedupTTL())
	assert.False(t, cfg.IsAIEnabled())
	assert.False(t, cfg.IsSMTPEnabled())
}

func TestLoadRejectsUnknownAIProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("AI_PROVIDER", "anthropic")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsWildcardCORSWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	_, err := Load()
	require.Error(t, err)
}

func TestGetLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, time.UTC, cfg.GetLocation())
}
