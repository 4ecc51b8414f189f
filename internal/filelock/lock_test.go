package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	pid, ok := l.Holder()
	if !ok {
		t.Fatal("Holder() not readable after Acquire")
	}
	if pid != os.Getpid() {
		t.Errorf("Holder() = %d, want %d", pid, os.Getpid())
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Errorf("lock file still present after Release: %v", err)
	}
}

func TestAcquireIdempotent(t *testing.T) {
	l := New(t.TempDir())
	if err := l.Acquire(); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if err := l.Acquire(); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()

	// Stamp the lock with our own pid, which is certainly alive.
	first := New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = first.Release() }()

	second := New(dir)
	err := second.Acquire()
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Acquire() error = %v, want ErrLocked", err)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, lockFileName)

	// Pids above the kernel default pid_max cannot belong to a live process.
	if err := os.WriteFile(path, []byte("4194304999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New(dir)
	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = l.Release() }()

	pid, ok := l.Holder()
	if !ok || pid != os.Getpid() {
		t.Errorf("Holder() = %d, %v; want our pid %d", pid, ok, os.Getpid())
	}
}

func TestAcquireReplacesGarbageLock(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, lockFileName), []byte("not a pid"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New(dir)
	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	_ = l.Release()
}

func TestAcquireCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	l := New(dir)
	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = l.Release() }()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("lock directory not created: %v", err)
	}
}

func TestReleaseUnacquired(t *testing.T) {
	l := New(t.TempDir())
	if err := l.Release(); err != nil {
		t.Errorf("Release() on unacquired lock error = %v", err)
	}
}

func TestHolderMissingFile(t *testing.T) {
	l := New(t.TempDir())
	if _, ok := l.Holder(); ok {
		t.Error("Holder() = ok for missing lock file")
	}
}

func TestErrLockedMessageNamesHolder(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = first.Release() }()

	err := New(dir).Acquire()
	want := fmt.Sprintf("held by pid %d", os.Getpid())
	if err == nil || !strings.Contains(err.Error(), want) {
		t.Errorf("Acquire() error = %v, want message containing %q", err, want)
	}
}
