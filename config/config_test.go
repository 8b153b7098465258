// ABOUTME: Tests for config loading, defaults and env overrides
// ABOUTME: Uses temp dirs so the real XDG config is never touched
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvTimeout, EnvWebAddr, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoadKeepsValuesAndFillsGaps(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := &Config{APIBaseURL: "https://friends.example.com", Timeout: Duration(3 * time.Second)}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timeout": "3s"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://friends.example.com", loaded.APIBaseURL)
	assert.Equal(t, Duration(3*time.Second), loaded.Timeout)
	assert.Equal(t, Duration(DefaultToastDuration), loaded.ToastDuration)
	assert.Equal(t, DefaultWebAddr, loaded.WebAddr)
}

func TestLoadAcceptsNumericDurations(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": 2000000000}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Duration(2*time.Second), cfg.Timeout)
}

func TestLoadRejectsGarbage(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": "soon"}`), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://backend:5000")
	t.Setenv(EnvTimeout, "750ms")
	t.Setenv(EnvWebAddr, ":9000")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000", cfg.APIBaseURL)
	assert.Equal(t, Duration(750*time.Millisecond), cfg.Timeout)
	assert.Equal(t, ":9000", cfg.WebAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverrideBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "forever")
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvWebAddr))
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvWebAddr+"=127.0.0.1:7777\n"), 0600))

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(t.TempDir(), "missing.env")))
	t.Cleanup(func() { _ = os.Unsetenv(EnvWebAddr) })
	assert.Equal(t, "127.0.0.1:7777", os.Getenv(EnvWebAddr))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.APIBaseURL = "localhost:5000"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}
