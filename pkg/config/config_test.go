package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := "POSTGRES_HOST=statements-db\nIMPORT_HISTORY_TTL_DAYS=30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	unsetEnv(t, "POSTGRES_HOST")
	unsetEnv(t, "IMPORT_HISTORY_TTL_DAYS")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "statements-db", cfg.Database.Host)
	assert.Equal(t, 30, cfg.Retention.TTLDays)
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadWithoutDotEnvUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetEnv(t, "POSTGRES_HOST")
	unsetEnv(t, "IMPORT_HISTORY_TTL_DAYS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 90, cfg.Retention.TTLDays)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IMPORT_HISTORY_TTL_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMPORT_HISTORY_TTL_DAYS")
}
