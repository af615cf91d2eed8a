package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	recordSuffix = ".json"
	tmpSuffix    = ".tmp"
	filePerm     = 0o600
)

// FileStore keeps one file per record key inside a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Init(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the record atomically through a temp file and rename.
func (s *FileStore) Write(_ context.Context, key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, value, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) Location() string {
	return s.dir
}

func (s *FileStore) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("record key cannot be empty")
	}
	return filepath.Join(s.dir, url.PathEscape(key)+recordSuffix), nil
}
