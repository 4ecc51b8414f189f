package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkerSetActiveClear(t *testing.T) {
	m := NewMarker(t.TempDir())

	if m.Active() {
		t.Fatal("Active() = true before Set")
	}
	if err := m.Set(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !m.Active() {
		t.Fatal("Active() = false after Set by a live process")
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if m.Active() {
		t.Error("Active() = true after Clear")
	}
}

func TestMarkerStalePidReadsInactive(t *testing.T) {
	dir := t.TempDir()
	m := NewMarker(dir)

	// Pids above the kernel default pid_max cannot belong to a live process.
	if err := os.WriteFile(m.Path(), []byte("4194304999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if m.Active() {
		t.Fatal("Active() = true for a dead pid")
	}
	// The stale file is cleaned up by the check.
	if _, err := os.Stat(m.Path()); !os.IsNotExist(err) {
		t.Errorf("stale marker not removed: %v", err)
	}
}

func TestMarkerGarbageContentsReadInactive(t *testing.T) {
	m := NewMarker(t.TempDir())
	if err := os.WriteFile(m.Path(), []byte("not a pid"), 0644); err != nil {
		t.Fatal(err)
	}
	if m.Active() {
		t.Error("Active() = true for garbage contents")
	}
}

func TestMarkerClearAbsent(t *testing.T) {
	m := NewMarker(t.TempDir())
	if err := m.Clear(); err != nil {
		t.Errorf("Clear() on absent marker error = %v", err)
	}
}

func TestMarkerSetCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	m := NewMarker(dir)
	if err := m.Set(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !m.Active() {
		t.Error("Active() = false after Set into a created directory")
	}
}

func TestMarkerCrossInstanceVisibility(t *testing.T) {
	dir := t.TempDir()

	// Two Marker values over the same directory stand in for the restore
	// process and the watch process.
	restorer := NewMarker(dir)
	watcher := NewMarker(dir)

	restorer.Suspend()
	if !watcher.Active() {
		t.Fatal("watcher does not see the restorer's suspend")
	}
	restorer.Resume()
	if watcher.Active() {
		t.Error("watcher still sees the marker after resume")
	}
}
