package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// markerFileName is created inside the save directory while a restore is
// in flight.
const markerFileName = ".wezkeep.restore"

// Marker is a pid-stamped presence file signalling that a restore is in
// flight. Restores run in their own wezkeep process while the autosave loop
// runs in another, so an in-memory latch cannot reach the scheduler; the
// marker carries the signal through the save directory. A marker left by a
// dead process reads as inactive.
type Marker struct {
	path string
}

// NewMarker returns the restore marker for a save directory.
func NewMarker(dir string) *Marker {
	return &Marker{path: filepath.Join(dir, markerFileName)}
}

// Path returns the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// Set writes the marker stamped with this process's pid. An existing marker
// is overwritten; the store serializes restores per process and a concurrent
// restore from another process would suspend autosave either way.
func (m *Marker) Set() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}
	return nil
}

// Clear removes the marker. Clearing an absent marker is a no-op.
func (m *Marker) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove marker file: %w", err)
	}
	return nil
}

// Active reports whether the marker exists and was set by a live process.
// A stale marker is removed on the way out so later checks stay cheap.
func (m *Marker) Active() bool {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || !processAlive(pid) {
		_ = os.Remove(m.path)
		return false
	}
	return true
}

// Suspend and Resume let the marker serve as the restore latch. Failing to
// signal the other process must not fail the restore itself, so errors are
// dropped here; the restore still runs with autosave merely unguarded.
func (m *Marker) Suspend() { _ = m.Set() }

// Resume clears the marker, releasing any watching scheduler.
func (m *Marker) Resume() { _ = m.Clear() }
