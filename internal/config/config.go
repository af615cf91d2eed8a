// Package config loads weekwise settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/utils"
)

// Config aggregates runtime configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Log      LogConfig     `yaml:"log"`
	Timezone string        `yaml:"timezone"`
	HTTP     HTTPConfig    `yaml:"http"`
	Backup   BackupConfig  `yaml:"backup"`

	// Path is the file the config was read from; Dir holds logs and backups.
	Path string `yaml:"-"`
	Dir  string `yaml:"-"`
}

// StorageConfig selects the persistence backend. Store is a path or URL:
// a plain path or sqlite:// for SQLite, file://, memory://, postgres://,
// valkey:// or s3://bucket.
type StorageConfig struct {
	Store    string         `yaml:"store"`
	Key      string         `yaml:"key"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	S3       S3Config       `yaml:"s3"`
}

// PostgresConfig holds a password-free DSN; the password comes from the
// keyring, PGPASSWORD or .pgpass.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type BackupConfig struct {
	Auto bool `yaml:"auto"`
	Max  int  `yaml:"max"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Store: constants.DefaultStorePath,
			Key:   constants.SlotsRecordKey,
			Valkey: ValkeyConfig{
				Prefix: constants.AppName,
			},
		},
		Timezone: constants.DefaultTimezone,
		HTTP: HTTPConfig{
			Address:      constants.DefaultHTTPAddress,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Backup: BackupConfig{
			Auto: true,
			Max:  constants.MaxBackups,
		},
	}
}

// DefaultPath returns the config file location, honouring WEEKWISE_CONFIG.
func DefaultPath() (string, error) {
	if v := os.Getenv(constants.EnvConfigPath); v != "" {
		return utils.ExpandHome(v)
	}
	return utils.ExpandHome(filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile))
}

// Load reads path (or DefaultPath when empty), then applies WEEKWISE_*
// overrides and validates. A missing file is only an error when path was
// given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	} else {
		var err error
		if path, err = utils.ExpandHome(path); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	cfg := Default()
	if err := hydrateFromFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.Path = path
	cfg.Dir = filepath.Dir(path)

	applyEnvOverrides(cfg)

	store, err := utils.ExpandHome(cfg.Storage.Store)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	cfg.Storage.Store = store

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(constants.EnvStore); v != "" {
		cfg.Storage.Store = v
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(constants.EnvHTTPAddress); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		cfg.Log.Debug = parseBool(v)
	}
	if v := os.Getenv(constants.EnvS3AccessKey); v != "" {
		cfg.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("WEEKWISE_BACKUP_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Backup.Max = parsed
		}
	}
	if v := os.Getenv("WEEKWISE_BACKUP_AUTO"); v != "" {
		cfg.Backup.Auto = parseBool(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// Validate ensures required fields are populated.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Store) == "" {
		return errors.New("storage.store cannot be empty")
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key cannot be empty")
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if strings.TrimSpace(c.HTTP.Address) == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Backup.Max < 1 {
		return errors.New("backup.max must be at least 1")
	}
	if c.Storage.S3.SecretKey != "" {
		return errors.New("storage.s3.secretKey must not be stored in the config file; use the keyring or WEEKWISE_S3_SECRET_KEY")
	}
	return nil
}

// BackupDir is where snapshots are written.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Dir, constants.BackupDirName)
}

// Save writes c as YAML to c.Path, creating its directory.
func (c *Config) Save() error {
	if c.Path == "" {
		return errors.New("config path is not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
