// Package errors provides centralized error definitions and handling
// utilities for wezkeep. It defines the sentinel errors the save/restore
// subsystem distinguishes (missing slot vs corrupt slot vs host failure),
// domain error types carrying slot or replay context, and classification
// helpers that decide what is safe to surface in the status bar.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Store-related sentinel errors
var (
	// ErrNotFound indicates no save slot exists for the requested name.
	ErrNotFound = New("no saved workspace")
	// ErrCorruptedSnapshot indicates a slot file exists but its contents do
	// not deserialize into a structurally valid snapshot. Callers surface
	// this distinctly from ErrNotFound: the file is there, just unusable.
	ErrCorruptedSnapshot = New("saved workspace data corrupted")
	// ErrAtCapacity indicates the store already holds the configured maximum
	// number of saved workspaces.
	ErrAtCapacity = New("saved workspace limit reached")
)

// Replay-related sentinel errors
var (
	// ErrPreconditionFailed indicates replay was attempted onto a workspace
	// that is not a fresh single-tab, single-pane layout. No mutation occurs.
	ErrPreconditionFailed = New("target workspace is not a fresh layout")
	// ErrHostOperation indicates the host returned no handle for a spawn or
	// split. Replay halts at that point and the partial layout is kept.
	ErrHostOperation = New("host operation failed")
	// ErrRestoreInProgress indicates another restore currently holds the
	// suspend latch.
	ErrRestoreInProgress = New("restore already in progress")
)

// baseError provides common functionality for the domain error types.
type baseError struct {
	message    string
	cause      error
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// StoreError represents a failure reading, writing, or deleting a save slot.
//
// Example:
//
//	err := errors.NewStoreError("failed to write slot", cause).WithSlot("work")
type StoreError struct {
	baseError
	Slot string
	Path string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			userFacing: true,
		},
	}
}

// WithSlot adds the workspace name to the error context.
func (e *StoreError) WithSlot(name string) *StoreError {
	e.Slot = name
	return e
}

// WithPath adds the slot file path to the error context.
func (e *StoreError) WithPath(path string) *StoreError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Slot != "" {
		parts = append(parts, fmt.Sprintf("slot=%s", e.Slot))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "store error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("store error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ReplayError represents a failure while rebuilding a workspace layout.
// Tab and Pane locate how far replay got before halting; -1 means not set.
type ReplayError struct {
	baseError
	Workspace string
	Tab       int
	Pane      int
}

// NewReplayError creates a new ReplayError.
func NewReplayError(message string, cause error) *ReplayError {
	return &ReplayError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			userFacing: true,
		},
		Tab:  -1,
		Pane: -1,
	}
}

// WithWorkspace adds the workspace name to the error context.
func (e *ReplayError) WithWorkspace(name string) *ReplayError {
	e.Workspace = name
	return e
}

// WithTab adds the snapshot tab index to the error context.
func (e *ReplayError) WithTab(idx int) *ReplayError {
	e.Tab = idx
	return e
}

// WithPane adds the snapshot pane index to the error context.
func (e *ReplayError) WithPane(idx int) *ReplayError {
	e.Pane = idx
	return e
}

// Error returns the formatted error message.
func (e *ReplayError) Error() string {
	var parts []string
	if e.Workspace != "" {
		parts = append(parts, fmt.Sprintf("workspace=%s", e.Workspace))
	}
	if e.Tab >= 0 {
		parts = append(parts, fmt.Sprintf("tab=%d", e.Tab))
	}
	if e.Pane >= 0 {
		parts = append(parts, fmt.Sprintf("pane=%d", e.Pane))
	}

	prefix := "replay error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("replay error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ReplayError) Is(target error) bool {
	if _, ok := target.(*ReplayError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// HostError represents a failure talking to the terminal host.
type HostError struct {
	baseError
	Command string
	Output  string
}

// NewHostError creates a new HostError.
func NewHostError(message string, cause error) *HostError {
	return &HostError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			userFacing: false,
		},
	}
}

// WithCommand adds the host command to the error context.
func (e *HostError) WithCommand(cmd string) *HostError {
	e.Command = cmd
	return e
}

// WithOutput adds captured command output to the error context.
func (e *HostError) WithOutput(output string) *HostError {
	e.Output = output
	return e
}

// Error returns the formatted error message.
func (e *HostError) Error() string {
	prefix := "host error"
	if e.Command != "" {
		prefix = fmt.Sprintf("host error [cmd=%s]", e.Command)
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s\nhost output: %s", msg, e.Output)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *HostError) Is(target error) bool {
	if _, ok := target.(*HostError); ok {
		return true
	}
	if errors.Is(target, ErrHostOperation) {
		return true
	}
	return e.baseError.Is(target)
}

// IsUserFacing returns true if the error message is safe to render in the
// status bar. Host errors carry raw command output and are logged instead.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var uf interface{ IsUserFacing() bool }
	if As(err, &uf) {
		return uf.IsUserFacing()
	}

	// Bare sentinels are written to be shown as-is.
	switch {
	case Is(err, ErrNotFound), Is(err, ErrCorruptedSnapshot), Is(err, ErrAtCapacity),
		Is(err, ErrPreconditionFailed), Is(err, ErrRestoreInProgress):
		return true
	}

	return false
}

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to save workspace")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
