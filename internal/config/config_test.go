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
	for _, k := range []string{"CALC_LOCALE", "CALC_THEME", "CALC_ADDR", "CALC_LOG_LEVEL", "CALC_LOG_FILE", "OTEL_SERVICE_NAME", "CALC_OTLP"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "calc.yaml")

	cfg := DefaultConfig()
	cfg.Locale = "de-DE"
	cfg.UI.Theme = "dark"
	cfg.Server.MaxSessions = 3

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", loaded.Locale)
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.Equal(t, 3, loaded.Server.MaxSessions)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALC_LOCALE", "fr-FR")
	t.Setenv("CALC_THEME", "light")
	t.Setenv("CALC_ADDR", "127.0.0.1:9000")
	t.Setenv("CALC_LOG_LEVEL", "debug")
	t.Setenv("OTEL_SERVICE_NAME", "calc-test")
	t.Setenv("CALC_OTLP", "true")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "fr-FR", cfg.Locale)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "calc-test", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Telemetry.OTLPEnabled)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.Theme = "neon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Locale = "%%"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.SessionTTL = "forever"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.MaxSessions = -1
	assert.Error(t, cfg.Validate())
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, 30*time.Minute, cfg.GetSessionTTL())
	assert.Equal(t, time.Minute, cfg.GetSweepInterval())

	cfg.Server.SessionTTL = "bogus"
	cfg.Server.SweepInterval = "0s"
	assert.Equal(t, 30*time.Minute, cfg.GetSessionTTL())
	assert.Equal(t, time.Minute, cfg.GetSweepInterval())
}
