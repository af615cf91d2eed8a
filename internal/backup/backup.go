// Package backup keeps timestamped JSON snapshots of the slot record.
package backup

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/slotstore"
)

const timestampFormat = "20060102-150405"

// digestSuffix names the sidecar holding a snapshot's BLAKE2b-256 digest.
const digestSuffix = ".b2sum"

// ErrUnchanged is returned by Create when the newest snapshot already holds
// identical content.
var ErrUnchanged = errors.New("no changes since the last backup")

// Store is the slot store surface backups need. *slotstore.Store satisfies it.
type Store interface {
	Encode() ([]byte, error)
	Replace(ctx context.Context, slots map[string]models.Slot) error
}

// Info describes one snapshot file.
type Info struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

type Manager struct {
	dir string
	max int
	now func() time.Time
}

// NewManager keeps at most max snapshots in dir.
func NewManager(dir string, max int) *Manager {
	if max < 1 {
		max = constants.MaxBackups
	}
	return &Manager{dir: dir, max: max, now: time.Now}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create snapshots the store and rotates old snapshots. It returns
// ErrUnchanged, writing nothing, when the newest snapshot matches.
func (m *Manager) Create(store Store) (Info, error) {
	return m.create(store, true)
}

func (m *Manager) create(store Store, rotate bool) (Info, error) {
	data, err := store.Encode()
	if err != nil {
		return Info{}, fmt.Errorf("failed to encode slots: %w", err)
	}

	sum := digest(data)
	if latest, err := m.Latest(); err == nil {
		if stored, err := storedDigest(latest.Path); err == nil && stored == sum {
			return latest, ErrUnchanged
		}
	}

	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, ts, err := m.nextPath()
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Info{}, fmt.Errorf("failed to write backup: %w", err)
	}
	if err := writeDigest(path, sum); err != nil {
		_ = os.Remove(path)
		return Info{}, fmt.Errorf("failed to write backup checksum: %w", err)
	}

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}
	logger.Info("backup created", "path", path)
	return Info{Path: path, Timestamp: ts, Size: int64(len(data))}, nil
}

// nextPath picks a unique file name for the current second.
func (m *Manager) nextPath() (string, time.Time, error) {
	ts := m.now()
	stamp := ts.Format(timestampFormat)
	path := filepath.Join(m.dir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; fileExists(path); counter++ {
		if counter > 100 {
			return "", time.Time{}, errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix))
	}
	return path, ts, nil
}

// List returns snapshots newest first. Files that do not follow the
// naming scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		// the counter orders snapshots taken within the same second
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts.Add(time.Duration(seq) * time.Nanosecond),
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	for i := range backups {
		backups[i].Timestamp = backups[i].Timestamp.Truncate(time.Second)
	}
	return backups, nil
}

// Latest returns the newest snapshot or os.ErrNotExist.
func (m *Manager) Latest() (Info, error) {
	backups, err := m.List()
	if err != nil {
		return Info{}, err
	}
	if len(backups) == 0 {
		return Info{}, os.ErrNotExist
	}
	return backups[0], nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.max; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		if err := os.Remove(digestPath(backups[i].Path)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove old backup checksum %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore validates the snapshot at path against its checksum sidecar,
// when there is one, snapshots the current state and then replaces the
// store's contents. Rotation runs once the restore has succeeded.
func (m *Manager) Restore(ctx context.Context, path string, store Store) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read backup: %w", err)
	}
	want, err := readDigest(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("backup has no checksum; skipping verification", "path", path)
	case err != nil:
		return Info{}, fmt.Errorf("failed to read backup checksum: %w", err)
	case want != digest(data):
		return Info{}, errors.New("backup file is corrupted or invalid: checksum mismatch")
	}

	slots, dropped, err := slotstore.Decode(data)
	if err != nil {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if dropped > 0 {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %d unreadable entries", dropped)
	}

	pre, err := m.create(store, false)
	if err != nil && !errors.Is(err, ErrUnchanged) {
		return Info{}, fmt.Errorf("failed to back up current slots before restore: %w", err)
	}

	if err := store.Replace(ctx, slots); err != nil {
		return Info{}, fmt.Errorf("failed to restore backup: %w", err)
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	logger.Info("backup restored", "path", path, "slots", len(slots))
	return pre, nil
}

// Resolve maps a snapshot name, path, or list index (1 = newest) to a path.
func (m *Manager) Resolve(ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		backups, err := m.List()
		if err != nil {
			return "", err
		}
		if n < 1 || n > len(backups) {
			return "", fmt.Errorf("no backup #%d (have %d)", n, len(backups))
		}
		return backups[n-1].Path, nil
	}
	if fileExists(ref) {
		return ref, nil
	}
	candidate := filepath.Join(m.dir, filepath.Base(ref))
	if fileExists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("backup not found: %s", ref)
}

func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	if len(stamp) > len(timestampFormat) {
		suffix, ok := strings.CutPrefix(stamp[len(timestampFormat):], "-")
		n, err := strconv.Atoi(suffix)
		if !ok || err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = stamp[:len(timestampFormat)]
	}

	ts, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func digestPath(path string) string {
	return path + digestSuffix
}

// writeDigest stores sum next to the snapshot in b2sum's "<hex>  <name>" layout.
func writeDigest(path, sum string) error {
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	return os.WriteFile(digestPath(path), []byte(line), 0o600)
}

func readDigest(path string) (string, error) {
	data, err := os.ReadFile(digestPath(path))
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file for %s", filepath.Base(path))
	}
	return fields[0], nil
}

// storedDigest returns the recorded digest of a snapshot, hashing the file
// itself for snapshots written before sidecars existed.
func storedDigest(path string) (string, error) {
	sum, err := readDigest(path)
	if !errors.Is(err, os.ErrNotExist) {
		return sum, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return digest(data), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
