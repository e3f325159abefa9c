package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.EditWindowDays)
	assert.Equal(t, 3*time.Second, cfg.Distance.Timeout)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
edit_window_days: 5
timezone: Europe/Moscow
distance:
  ors_api_key: from-file
  timeout: 1500ms
  rate_limit: 2.5
log:
  level: debug
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ORS_API_KEY", "from-env")
	t.Setenv("DISTANCE_CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.EditWindowDays)
	assert.Equal(t, "from-env", cfg.Distance.ORSAPIKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.Distance.Timeout)
	assert.Equal(t, 2.5, cfg.Distance.RateLimit)
	assert.Equal(t, time.Hour, cfg.Distance.CacheTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	t.Setenv("EDIT_WINDOW_DAYS", "three")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EDIT_WINDOW_DAYS", "3")
	t.Setenv("TZ_NAME", "Mars/Olympus")
	_, err = Load()
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("SOME_KEY", "  ")
	assert.Equal(t, "fallback", Get("SOME_KEY", "fallback"))
	t.Setenv("SOME_KEY", "value")
	assert.Equal(t, "value", Get("SOME_KEY", "fallback"))
}
