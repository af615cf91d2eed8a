package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/weekwise/internal/storage"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "weekwise.db")
	s := NewStore(path)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	if _, err := s.Read(ctx, "WEEKWISE_SLOTS_V2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Read on empty store error = %v, want ErrNotFound", err)
	}
	if err := s.Write(ctx, "WEEKWISE_SLOTS_V2", []byte(`{"Monday__20":{"type":"study"}}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write(ctx, "WEEKWISE_SLOTS_V2", []byte(`{}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err := s.Read(ctx, "WEEKWISE_SLOTS_V2")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("Read = %s, want {}", got)
	}
	if err := s.Remove(ctx, "WEEKWISE_SLOTS_V2"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.Read(ctx, "WEEKWISE_SLOTS_V2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Read after Remove error = %v, want ErrNotFound", err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := setupStore(t)
	if err := s.Write(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := NewStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Read(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Read after reopen = %q, %v", got, err)
	}

	current, latest, err := reopened.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("SchemaVersion = (%d, %d)", current, latest)
	}
}

func TestStoreNotInitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "x.db"))
	if _, err := s.Read(context.Background(), "k"); err == nil {
		t.Error("expected error before Init")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close before Init: %v", err)
	}
}
