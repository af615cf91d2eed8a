// Package storage defines the key/value persistence boundary the planner
// writes its records through, plus the file and in-memory backends.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Backend persists opaque records under string keys.
type Backend interface {
	// Init prepares the backend (directories, schema, buckets).
	Init(ctx context.Context) error
	// Read returns the record stored under key or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value []byte) error
	// Remove deletes the record under key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error

	// Location describes where records live without exposing credentials.
	Location() string
}
