// Package postgres stores planner records in a PostgreSQL schema.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/migration"
	"github.com/julianstephens/weekwise/internal/storage"
	"github.com/julianstephens/weekwise/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
}

// New returns a store for connStr with search_path pinned to the weekwise schema.
func New(connStr string) *Store {
	return &Store{connStr: withSearchPath(connStr, constants.AppName)}
}

func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Debug("postgres store ready", "target", redact(s.connStr))
	return nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, errNotOpen
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_records WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		return errNotOpen
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.db == nil {
		return errNotOpen
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_records WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Location returns a credential-free description of the database.
func (s *Store) Location() string {
	return redact(s.connStr)
}

var errNotOpen = errors.New("postgres store is not initialized")

func (s *Store) runMigrations(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS, migration.Postgres)
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg, "backend", "postgres")
	})
	return err
}

var _ storage.Backend = (*Store)(nil)
