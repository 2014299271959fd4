package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procurit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "llama3-8b-8192", cfg.Groq.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 10, cfg.Limits.RequestsPerMinute)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Search.ResultTTL.Std())
	assert.Equal(t, 2*time.Hour, cfg.Cache.SupplierTTL.Std())
	assert.False(t, cfg.HasCredentials())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
search:
  variant_delay: 250ms
  result_ttl: 45m
groq:
  api_key: file-groq-key
  model: llama-3.1-70b-versatile
limits:
  requests_per_minute: 3
cache:
  backend: badger
  supplier_ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.VariantDelay.Std())
	assert.Equal(t, 45*time.Minute, cfg.Search.ResultTTL.Std())
	assert.Equal(t, "file-groq-key", cfg.Groq.APIKey)
	assert.Equal(t, "llama-3.1-70b-versatile", cfg.Groq.Model)
	assert.Equal(t, 3, cfg.Limits.RequestsPerMinute)
	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.SupplierTTL.Std())

	// Untouched sections keep their defaults.
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 2*time.Hour, cfg.Cache.InsightTTL.Std())
	assert.True(t, cfg.HasCredentials())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "env-groq-key")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("PROCURIT_LOG_LEVEL", "warn")

	path := writeConfig(t, `
log_level: debug
groq:
  api_key: file-groq-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-groq-key", cfg.Groq.APIKey, "environment credentials win over the file")
	assert.Equal(t, "env-gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	cfg := FromEnv()
	assert.Equal(t, "env-gemini-key", cfg.Gemini.APIKey)
	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, "llama3-8b-8192", cfg.Groq.Model)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	path := writeConfig(t, `
search:
  result_ttl: soonish
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "redis"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownCacheBackend)

	cfg = Default()
	cfg.Limits.RequestsPerMinute = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidRequestLimit)

	cfg = Default()
	assert.NoError(t, cfg.Validate())
}
