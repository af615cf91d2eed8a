// Package sqlite stores planner records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/migration"
	"github.com/julianstephens/weekwise/internal/storage"
	"github.com/julianstephens/weekwise/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database, creating its directory, and applies pending migrations.
func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent and serialises writers
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, errNotOpen
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_records WHERE key = ?", key).Scan(&value)
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
		INSERT INTO kv_records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.db == nil {
		return errNotOpen
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_records WHERE key = ?", key); err != nil {
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

func (s *Store) Location() string {
	return s.path
}

// SchemaVersion reports the applied and the latest known schema versions.
func (s *Store) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, errNotOpen
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	latest, err = runner.LatestVersion()
	return current, latest, err
}

var errNotOpen = errors.New("sqlite store is not initialized")

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg, "backend", "sqlite")
	})
	return err
}

var _ storage.Backend = (*Store)(nil)
