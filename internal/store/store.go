// Package store persists workspace snapshots as one JSON document per save
// slot inside a single directory. The directory listing is the only index:
// a workspace is "registered" exactly when its slot file exists, so slot
// existence and registration state can never diverge.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/layout"
)

const (
	slotPrefix = "wezterm_state_"
	slotSuffix = ".json"
)

// Store reads and writes snapshot slots under a base directory.
//
// The mutex guards concurrent saves against the same slot (autosave ticks
// racing user-driven saves); last write wins, but never interleaves.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// New returns a Store rooted at dir. The directory is created lazily on the
// first save, not here, so constructing a store never touches the disk.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's base directory.
func (s *Store) Dir() string { return s.dir }

// SlotPath returns the file path for a workspace name. The name is used
// verbatim; names containing path separators are the caller's problem.
func (s *Store) SlotPath(name string) string {
	return filepath.Join(s.dir, slotPrefix+name+slotSuffix)
}

// Save serializes the snapshot into its slot, overwriting any previous
// contents. The save directory is created if missing.
func (s *Store) Save(snap *layout.WorkspaceSnapshot) error {
	if err := snap.Validate(); err != nil {
		return errors.NewStoreError("refusing to save invalid snapshot", err).WithSlot(snap.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.NewStoreError("failed to create save directory", err).WithPath(s.dir)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewStoreError("failed to encode snapshot", err).WithSlot(snap.Name)
	}

	path := s.SlotPath(snap.Name)
	if err := atomicWriteFile(path, data, 0644); err != nil {
		return errors.NewStoreError("failed to write slot", err).WithSlot(snap.Name).WithPath(path)
	}
	return nil
}

// Load reads and validates the slot for a workspace name.
// Returns ErrNotFound when no slot exists, and ErrCorruptedSnapshot when the
// file exists but does not decode into a structurally valid snapshot; the
// two are surfaced differently to the user.
func (s *Store) Load(name string) (*layout.WorkspaceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.SlotPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.NewStoreError("failed to read slot", err).WithSlot(name).WithPath(path)
	}

	var snap layout.WorkspaceSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(errors.ErrCorruptedSnapshot, "slot %q: %v", name, err)
	}
	// Hand-edited or truncated files can decode but still be unusable.
	if err := snap.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrCorruptedSnapshot, "slot %q: %v", name, err)
	}
	return &snap, nil
}

// List enumerates the names of all saved workspaces. Order is unspecified;
// callers sort if they care.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, slotPrefix+"*"+slotSuffix))
	if err != nil {
		return nil, errors.NewStoreError("failed to list slots", err).WithPath(s.dir)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		name := strings.TrimSuffix(strings.TrimPrefix(base, slotPrefix), slotSuffix)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Count returns the number of saved workspaces, for capacity enforcement.
func (s *Store) Count() (int, error) {
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Delete removes a slot. Deleting a slot that does not exist is not an
// error; delete is idempotent.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.SlotPath(name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewStoreError("failed to delete slot", err).WithSlot(name).WithPath(path)
	}
	return nil
}

// DeleteAll removes every slot in the store.
func (s *Store) DeleteAll() error {
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

// Registered reports whether a save slot exists for the workspace name.
// This is the single source of truth for registration state.
func (s *Store) Registered(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.SlotPath(name))
	return err == nil
}

// Stat returns the slot file's metadata, for display in listings.
// Returns ErrNotFound when no slot exists.
func (s *Store) Stat(name string) (os.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.SlotPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.NewStoreError("failed to stat slot", err).WithSlot(name)
	}
	return info, nil
}

// atomicWriteFile writes data to a file atomically by writing to a temporary
// file first, then renaming. The target file is never observed in a
// partially-written state.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
