package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// clearEnv unsets every LANGMAN_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envAPIURL, envTimeout, envLanguage, envLogLevel, envLogDev, envListenAddr, envGameTokenTTL, envSigningKey} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envAPIURL, "https://langman.example.com/")
	t.Setenv(envTimeout, "3s")
	t.Setenv(envLanguage, "fr")
	t.Setenv(envLogDev, "true")
	t.Setenv(envGameTokenTTL, "90s")
	t.Setenv(envSigningKey, "k")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://langman.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "fr", cfg.Language)
	assert.True(t, cfg.LogDev)
	assert.Equal(t, 90*time.Second, cfg.GameTokenTTL)
	assert.Equal(t, "k", cfg.SigningKey)
}

func TestFromEnv_ReportsEveryBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv(envTimeout, "soon")
	t.Setenv(envLogDev, "maybe")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, envTimeout)
	assert.ErrorContains(t, err, envLogDev)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANGMAN_LANGUAGE=es\nLANGMAN_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv(envLogLevel, "warn")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestBindFlags(t *testing.T) {
	cfg := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-api", "http://127.0.0.1:9000", "-lang", "es", "-timeout", "1s"}))

	assert.Equal(t, "http://127.0.0.1:9000", cfg.APIURL)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"ok", func(*Config) {}, 0},
		{"relative url", func(c *Config) { c.APIURL = "localhost:8080" }, 1},
		{"ftp url", func(c *Config) { c.APIURL = "ftp://host" }, 1},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, 1},
		{"bad language", func(c *Config) { c.Language = "not a tag" }, 1},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, 1},
		{"several", func(c *Config) { c.ListenAddr = ""; c.GameTokenTTL = -time.Second; c.Timeout = 0 }, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.Len(t, multierr.Errors(err), tc.errs)
		})
	}
}
