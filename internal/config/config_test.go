package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekwise/internal/constants"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		constants.EnvConfigPath, constants.EnvStore, constants.EnvTimezone,
		constants.EnvHTTPAddress, constants.EnvDebug, constants.EnvS3AccessKey,
		"WEEKWISE_BACKUP_MAX", "WEEKWISE_BACKUP_AUTO",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(constants.EnvConfigPath, filepath.Join(dir, "config.yaml"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, constants.SlotsRecordKey, cfg.Storage.Key)
	require.Equal(t, constants.DefaultHTTPAddress, cfg.HTTP.Address)
	require.Equal(t, constants.MaxBackups, cfg.Backup.Max)
	require.True(t, cfg.Backup.Auto)
	require.Equal(t, dir, cfg.Dir)
	require.Equal(t, filepath.Join(dir, "backups"), cfg.BackupDir())
	require.NotContains(t, cfg.Storage.Store, "~")
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  store: postgres://planner@localhost/weekwise
  valkey:
    addr: localhost:6379
log:
  debug: true
timezone: UTC
http:
  address: 0.0.0.0:9000
  readTimeout: 3s
backup:
  auto: false
  max: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://planner@localhost/weekwise", cfg.Storage.Store)
	require.Equal(t, "localhost:6379", cfg.Storage.Valkey.Addr)
	require.Equal(t, constants.AppName, cfg.Storage.Valkey.Prefix)
	require.True(t, cfg.Log.Debug)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, "0.0.0.0:9000", cfg.HTTP.Address)
	require.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	require.False(t, cfg.Backup.Auto)
	require.Equal(t, 5, cfg.Backup.Max)
	require.Equal(t, constants.SlotsRecordKey, cfg.Storage.Key)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "timezone: UTC\n")
	t.Setenv(constants.EnvStore, "memory://")
	t.Setenv(constants.EnvTimezone, "Europe/Berlin")
	t.Setenv(constants.EnvHTTPAddress, "127.0.0.1:1234")
	t.Setenv(constants.EnvDebug, "true")
	t.Setenv("WEEKWISE_BACKUP_MAX", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory://", cfg.Storage.Store)
	require.Equal(t, "Europe/Berlin", cfg.Timezone)
	require.Equal(t, "127.0.0.1:1234", cfg.HTTP.Address)
	require.True(t, cfg.Log.Debug)
	require.Equal(t, 3, cfg.Backup.Max)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store", func(c *Config) { c.Storage.Store = " " }},
		{"empty key", func(c *Config) { c.Storage.Key = "" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Nowhere/Special" }},
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"zero backups", func(c *Config) { c.Backup.Max = 0 }},
		{"secret in file", func(c *Config) { c.Storage.S3.SecretKey = "shh" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestInvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "storage: [unterminated"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Path = filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg.Storage.Store = "valkey://localhost:6379"
	cfg.Timezone = "UTC"
	require.NoError(t, cfg.Save())

	loaded, err := Load(cfg.Path)
	require.NoError(t, err)
	require.Equal(t, "valkey://localhost:6379", loaded.Storage.Store)
	require.Equal(t, "UTC", loaded.Timezone)
	require.Equal(t, cfg.HTTP, loaded.HTTP)
}
