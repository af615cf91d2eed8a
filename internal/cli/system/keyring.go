package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/keyring"
	"github.com/julianstephens/weekwise/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored secrets."`
}

// KeyringSetCmd stores the PostgreSQL connection string, or with
// --s3-secret the object store secret key, in the OS keyring.
type KeyringSetCmd struct {
	Secret   string `arg:"" help:"PostgreSQL connection string, or the S3 secret key with --s3-secret."`
	S3Secret bool   `name:"s3-secret" help:"Store the S3 secret key instead of a connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if cmd.S3Secret {
		if err := keyring.Set(constants.ObjectStoreSecret, cmd.Secret); err != nil {
			return fmt.Errorf("failed to store S3 secret in keyring: %w", err)
		}
		ctx.Println("✓ S3 secret key stored successfully in OS keyring")
		return nil
	}

	if err := postgres.ValidateConnString(cmd.Secret); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so a password is acceptable here
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.Secret); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Println("  Set storage.store to \"postgres\" to use it")
	return nil
}

type KeyringDeleteCmd struct {
	S3Secret bool `name:"s3-secret" help:"Delete the S3 secret key instead of the connection string."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	remove, what := keyring.DeleteConnectionString, "connection string"
	if cmd.S3Secret {
		remove, what = keyring.DeleteObjectStoreSecret, "S3 secret key"
	}

	if err := remove(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", what)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", what)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	for _, entry := range []struct{ account, what string }{
		{constants.DefaultKeyringUser, "Connection string"},
		{constants.ObjectStoreSecret, "S3 secret key"},
	} {
		_, err := keyring.Get(entry.account)
		switch {
		case err == nil:
			ctx.Printf("✓ %s is stored in keyring\n", entry.what)
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ %s is not stored in keyring\n", entry.what)
		default:
			ctx.Printf("⚠ %s: %v\n", entry.what, err)
		}
	}
	return nil
}
