package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/weekwise/internal/config"
	"github.com/julianstephens/weekwise/internal/keyring"
	"github.com/julianstephens/weekwise/internal/storage"
	"github.com/julianstephens/weekwise/internal/storage/objectstore"
	"github.com/julianstephens/weekwise/internal/storage/postgres"
	"github.com/julianstephens/weekwise/internal/storage/sqlite"
	"github.com/julianstephens/weekwise/internal/storage/valkey"
)

// OpenBackend picks the persistence backend named by cfg.Storage.Store.
// URLs select by scheme; the bare words postgres, valkey and s3 take their
// settings from the matching config section; anything else is a SQLite path.
func OpenBackend(cfg *config.Config) (storage.Backend, error) {
	store := strings.TrimSpace(cfg.Storage.Store)

	switch {
	case store == "memory" || store == "memory://":
		return storage.NewMemoryStore(), nil

	case strings.HasPrefix(store, "file://"):
		dir := strings.TrimPrefix(store, "file://")
		if dir == "" {
			return nil, errors.New("file:// store needs a directory")
		}
		return storage.NewFileStore(dir), nil

	case store == "postgres" || postgres.IsConnString(store):
		return openPostgres(cfg, store)

	case store == "valkey" || hasAnyPrefix(store, "valkey://", "redis://", "rediss://"):
		addr := store
		if store == "valkey" {
			addr = cfg.Storage.Valkey.Addr
		}
		if addr == "" {
			return nil, errors.New("valkey store needs storage.valkey.addr")
		}
		return valkey.New(addr, cfg.Storage.Valkey.Prefix), nil

	case store == "s3" || strings.HasPrefix(store, "s3://"):
		return openObjectStore(cfg, store)

	case strings.HasPrefix(store, "sqlite://"):
		return sqlite.NewStore(strings.TrimPrefix(store, "sqlite://")), nil
	}

	if strings.Contains(store, "://") {
		return nil, fmt.Errorf("unsupported store %q", store)
	}
	return sqlite.NewStore(store), nil
}

func openPostgres(cfg *config.Config, store string) (storage.Backend, error) {
	connStr := store
	if store == "postgres" {
		var source keyring.Source
		connStr, source = keyring.ResolveConnectionString(cfg.Storage.Postgres.DSN)
		if source == keyring.SourceNone {
			return nil, errors.New("no PostgreSQL connection string: set WEEKWISE_DB_CONNECTION, run 'weekwise keyring set', or set storage.postgres.dsn")
		}
		// the keyring is an encrypted store, so only plain-text sources
		// are held to the no-password rule
		if source == keyring.SourceKeyring {
			return postgres.New(connStr), nil
		}
	}
	if err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w: store the full connection string with 'weekwise keyring set' or use .pgpass/PGPASSWORD", err)
		}
		return nil, err
	}
	return postgres.New(connStr), nil
}

func openObjectStore(cfg *config.Config, store string) (storage.Backend, error) {
	s3 := cfg.Storage.S3
	oc := objectstore.Config{
		Endpoint:  s3.Endpoint,
		Bucket:    s3.Bucket,
		Prefix:    s3.Prefix,
		Region:    s3.Region,
		AccessKey: s3.AccessKey,
	}
	if store != "s3" {
		parsed, err := objectstore.ParseURL(store)
		if err != nil {
			return nil, err
		}
		oc.Bucket, oc.Prefix = parsed.Bucket, parsed.Prefix
	}
	if oc.Bucket == "" {
		return nil, errors.New("s3 store needs a bucket")
	}
	if oc.AccessKey != "" {
		secret, source := keyring.ResolveObjectStoreSecret("")
		if source == keyring.SourceNone {
			return nil, errors.New("s3 access key is set but no secret key: set WEEKWISE_S3_SECRET_KEY or run 'weekwise keyring set --s3-secret'")
		}
		oc.SecretKey = secret
	}
	return objectstore.New(oc), nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
