package constants

import "time"

const (
	AppName            = "weekwise"
	DefaultKeyringUser = "database-connection"
	ObjectStoreSecret  = "object-store-secret"
	DefaultConfigDir   = "~/.config/weekwise"
	DefaultConfigFile  = "config.yaml"
	DefaultStorePath   = "~/.config/weekwise/weekwise.db"
	Version            = "v0.2.0"

	// SlotsRecordKey is the persistence key that holds the whole slot mapping.
	// The V2 suffix matches records written by the browser planner.
	SlotsRecordKey = "WEEKWISE_SLOTS_V2"

	// Environment variables
	EnvConfigPath   = "WEEKWISE_CONFIG"
	EnvStore        = "WEEKWISE_STORE"
	EnvDBConnection = "WEEKWISE_DB_CONNECTION"
	EnvDebug        = "WEEKWISE_DEBUG"
	EnvTimezone     = "WEEKWISE_TIMEZONE"
	EnvHTTPAddress  = "WEEKWISE_HTTP_ADDRESS"
	EnvS3AccessKey  = "WEEKWISE_S3_ACCESS_KEY"
	EnvS3SecretKey  = "WEEKWISE_S3_SECRET_KEY"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "weekwise-"
	BackupFileSuffix = ".json"

	// Refresh interval for the "now" highlight
	NowRefreshInterval = time.Minute

	DefaultHTTPAddress = "127.0.0.1:8787"
	DefaultTimezone    = "Local"

	// ICS export
	ICSProductID = "-//weekwise//weekly planner//EN"
)
