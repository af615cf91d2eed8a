// Package keyring keeps backend secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/weekwise/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for an account.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored for account.
func Get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account.
func Set(account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret for account.
func Delete(account string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString returns the stored PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	return Set(constants.DefaultKeyringUser, connStr)
}

func DeleteConnectionString() error {
	return Delete(constants.DefaultKeyringUser)
}

// DeleteObjectStoreSecret removes the S3 secret key.
func DeleteObjectStoreSecret() error {
	return Delete(constants.ObjectStoreSecret)
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
