package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrEmptySnapshot is returned when a snapshot with no entries would be
// saved. Nothing is written in that case.
var ErrEmptySnapshot = errors.New("snapshot is empty, nothing to back up")

const fileTimeFormat = "20060102-150405"

// Store keeps snapshot files in one backup directory.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save writes the snapshot to <name>-<timestamp>.json in the store
// directory, atomically via a temp file. The snapshot is checked before
// anything touches the disk.
func (s *Store) Save(snap *Snapshot, name string, now time.Time) (string, error) {
	if snap.Empty() {
		return "", ErrEmptySnapshot
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.json", name, now.UTC().Format(fileTimeFormat)))
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return path, nil
}

// List returns the snapshot filenames in the store, sorted. The metadata
// index is not a snapshot and is never listed. A missing directory lists
// as nothing.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") && name != IndexFileName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Empty reports whether the store holds no snapshots yet. A missing or
// unreadable directory counts as empty.
func (s *Store) Empty() bool {
	names, err := s.List()
	return err != nil || len(names) == 0
}

// LoadFile reads and parses one snapshot file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	snap, err := ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return snap, nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}
