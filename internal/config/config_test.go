package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 15, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Equal(t, "telehealth", cfg.Database.Name)
	assert.Contains(t, cfg.Database.DSN, "parseTime=True")
	assert.Equal(t, "no-reply@telehealth.local", cfg.Mailer.FromEmail)
	assert.Empty(t, cfg.Stream.APIKey)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "telehealth_test")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")
	t.Setenv("STREAM_API_KEY", "key")
	t.Setenv("STREAM_API_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.JWTExpirationMinutes)
	assert.Contains(t, cfg.Database.DSN, "db.internal")
	assert.Contains(t, cfg.Database.DSN, "telehealth_test")
	assert.Equal(t, "key", cfg.Stream.APIKey)
	assert.Equal(t, "secret", cfg.Stream.APISecret)
}

func TestLoadConfigRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}
