package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// A path that does not exist loads pure defaults.
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "googleai", cfg.Oracle.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 45*time.Second, cfg.Oracle.Timeout.Duration())
	assert.Equal(t, "gitguard-backup", cfg.Checkpoint.RefPrefix)
	assert.Equal(t, 3, cfg.Run.MaxAttempts)
	assert.Equal(t, "/bin/sh", cfg.Run.Shell)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
oracle:
  model: gemini-2.0-pro
  timeout: 30s
run:
  max_attempts: 5
logging:
  level: debug
`, 0o600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-pro", cfg.Oracle.Model)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout.Duration())
	assert.Equal(t, 5, cfg.Run.MaxAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unspecified fields keep defaults.
	assert.Equal(t, "gitguard-backup", cfg.Checkpoint.RefPrefix)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "oracle:\n  model: from-file\n", 0o600)

	t.Setenv("GITGUARD_ORACLE_MODEL", "from-env")
	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Oracle.Model)
}

func TestAPIKeyFallsBackToGeminiEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Oracle.APIKey.Value())
	assert.Equal(t, "[REDACTED]", cfg.Oracle.APIKey.String())
}

func TestInsecurePermissionsRejected(t *testing.T) {
	path := writeConfig(t, "oracle:\n  model: x\n", 0o644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestInvalidValuesRejected(t *testing.T) {
	path := writeConfig(t, "run:\n  max_attempts: 99\n", 0o600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
}

func TestSecretNeverMarshalsValue(t *testing.T) {
	s := Secret("hunter2")
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", string(text))

	js, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(js), "hunter2")
}

func TestDurationRejectsNegative(t *testing.T) {
	var d Duration
	require.Error(t, d.UnmarshalText([]byte("-5s")))
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())
}
