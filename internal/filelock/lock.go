// Package filelock provides an advisory lock file guarding a save
// directory. Only one autosave loop should write snapshots for a given
// directory at a time; a second watcher would race the first on every
// slot refresh.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked indicates the directory is already locked by a live process.
var ErrLocked = errors.New("save directory is locked")

// lockFileName is created inside the guarded directory.
const lockFileName = ".wezkeep.lock"

// Lock is a pid-stamped advisory lock on a directory. It is not
// goroutine-safe; each process holds at most one.
type Lock struct {
	path     string
	acquired bool
}

// New returns an unacquired lock for dir.
func New(dir string) *Lock {
	return &Lock{path: filepath.Join(dir, lockFileName)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock, creating the directory if needed. A lock file
// left behind by a dead process is treated as stale and replaced. Returns
// ErrLocked (wrapped with the holder's pid) if another live process owns it.
func (l *Lock) Acquire() error {
	if l.acquired {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("create lock file: %w", err)
	}

	pid, ok := l.Holder()
	if ok && processAlive(pid) {
		return fmt.Errorf("%w: held by pid %d", ErrLocked, pid)
	}

	// Stale or unreadable lock file; remove and retry once.
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale lock file: %w", err)
	}
	if err := l.tryCreate(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: lost race for lock file", ErrLocked)
		}
		return fmt.Errorf("create lock file: %w", err)
	}
	return nil
}

// tryCreate atomically creates the lock file stamped with our pid.
func (l *Lock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(l.path)
		if werr != nil {
			return fmt.Errorf("write lock file: %w", werr)
		}
		return fmt.Errorf("close lock file: %w", cerr)
	}
	l.acquired = true
	return nil
}

// Release removes the lock file. Releasing an unacquired lock is a no-op.
func (l *Lock) Release() error {
	if !l.acquired {
		return nil
	}
	l.acquired = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// Holder returns the pid recorded in the lock file, if one can be read.
func (l *Lock) Holder() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive reports whether a process with the given pid exists.
// Signal 0 performs the existence check without delivering anything.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return errors.Is(err, syscall.EPERM)
}
