package keyring

import (
	"errors"
	"os"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/logger"
)

// Source names where a resolved secret came from.
type Source string

const (
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
	SourceConfig  Source = "config"
	SourceNone    Source = "none"
)

// ResolveConnectionString picks the PostgreSQL connection string from, in
// order, WEEKWISE_DB_CONNECTION, the keyring, then fallback (usually the
// config file value).
func ResolveConnectionString(fallback string) (string, Source) {
	return resolve(constants.EnvDBConnection, constants.DefaultKeyringUser, fallback)
}

// ResolveObjectStoreSecret picks the S3 secret key the same way.
func ResolveObjectStoreSecret(fallback string) (string, Source) {
	return resolve(constants.EnvS3SecretKey, constants.ObjectStoreSecret, fallback)
}

func resolve(envVar, account, fallback string) (string, Source) {
	if v := os.Getenv(envVar); v != "" {
		return v, SourceEnv
	}
	secret, err := Get(account)
	if err == nil {
		return secret, SourceKeyring
	}
	if !errors.Is(err, ErrNotFound) {
		logger.Debug("keyring lookup failed", "account", account, "error", err)
	}
	if fallback != "" {
		return fallback, SourceConfig
	}
	return "", SourceNone
}
