package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "placeholder.com", cfg.Import.PlaceholderDomain)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "0 */15 * * * *", cfg.Jobs.CounterReconcileCron)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "production")
	t.Setenv("STORAGE_MAXUPLOADSIZEMB", "2")
	t.Setenv("IMPORT_PLACEHOLDERDOMAIN", "leads.invalid")
	t.Setenv("JWT_SECRET", "from-plain-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, int64(2*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "leads.invalid", cfg.Import.PlaceholderDomain)
	assert.Equal(t, "from-plain-env", cfg.Auth.JWTSecret)
}

func TestLoadWithSecrets_Validation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("AUTH_JWTSECRET", "")

		_, err := LoadWithSecrets(context.Background(), zap.NewNop())
		assert.ErrorContains(t, err, "JWT secret is empty")
	})

	t.Run("short secret in production", func(t *testing.T) {
		t.Setenv("APP_ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "too-short")

		_, err := LoadWithSecrets(context.Background(), zap.NewNop())
		assert.ErrorContains(t, err, "at least 32 characters")
	})

	t.Run("environment source", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "a-development-secret")

		cfg, err := LoadWithSecrets(context.Background(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "a-development-secret", cfg.Auth.JWTSecret)
	})
}
