package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.VerifyTTL)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CACHE_VERIFY_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.VerifyTTL)
}

func TestLoadConfig_DefaultProviderInstalled(t *testing.T) {
	os.Clearenv()
	t.Setenv("OPENAI_API_KEY", "sk-test-12345")
	t.Setenv("OPENAI_CUSTOM_MODELS", `{"my-model":{"context_window":50000}}`)
	t.Setenv("OPENAI_ALLOWED_MODELS", "o3, o4-mini")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 1)
	p := cfg.Providers[0]
	assert.Equal(t, "openai", p.Kind)
	assert.True(t, p.Enabled)
	assert.Equal(t, "sk-test-12345", p.APIKey)
	assert.Contains(t, p.CustomModels, "my-model")
	assert.Equal(t, "o3, o4-mini", p.AllowedModels)
	assert.Empty(t, p.DeniedModels)
}

func TestLoadConfig_MissingSecretsResolveEmpty(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 1)
	assert.Empty(t, cfg.Providers[0].APIKey)
	assert.Empty(t, cfg.Providers[0].CustomModels)
}
