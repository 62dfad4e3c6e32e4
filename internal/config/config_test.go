package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 300*time.Second, cfg.Auth.AccessTTL())
	assert.Equal(t, time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "blog:events", cfg.Redis.EventsChannel)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfig_Helpers(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "3000", RequestTimeoutSeconds: 5}
	assert.Equal(t, "127.0.0.1:3000", app.Addr())
	assert.Equal(t, 5*time.Second, app.RequestTimeout())

	app.RequestTimeoutSeconds = 0
	assert.Zero(t, app.RequestTimeout())
}
