// Package host abstracts the terminal multiplexer that owns the live
// workspaces. The core save/restore logic only ever talks to the Host
// interface; the WezTerm implementation shells out to the wezterm CLI, and
// the Mock implementation scripts a fake layout for tests.
package host

import (
	"context"

	"github.com/wezkeep/wezkeep/internal/layout"
)

// Pane is one live terminal surface as reported by the host. Geometry is in
// cells, relative to the host's left-to-right, top-to-bottom layout.
type Pane struct {
	ID       string
	Index    int
	IsActive bool
	IsZoomed bool
	Left     int
	Top      int
	Width    int
	Height   int
	// CwdURI is the pane's working directory as a URI (file://host/path).
	CwdURI string
	// ForegroundProcess is a path-like identifier for the pane's foreground
	// process, or empty if the host cannot determine it.
	ForegroundProcess string
}

// Tab is an ordered collection of panes. Pane order is the host's
// enumeration order (creation/split order), never spatial order.
type Tab struct {
	ID    string
	Panes []Pane
}

// Host is the capability surface wezkeep consumes from the terminal
// environment. Implementations must preserve the host's pane enumeration
// order in Tabs; the replay engine depends on it.
type Host interface {
	// ListWorkspaces returns the names of all live workspaces.
	ListWorkspaces(ctx context.Context) ([]string, error)

	// ActiveWorkspace returns the name of the currently focused workspace.
	ActiveWorkspace(ctx context.Context) (string, error)

	// SwitchWorkspace makes the named workspace active, creating it with a
	// single fresh tab if it does not exist.
	SwitchWorkspace(ctx context.Context, name string) error

	// Tabs returns the ordered tabs of a workspace with their panes.
	Tabs(ctx context.Context, workspace string) ([]Tab, error)

	// SpawnTab creates a new tab in the workspace seeded with the given
	// working directory and returns the ID of its initial pane.
	SpawnTab(ctx context.Context, workspace, cwd string) (paneID string, err error)

	// SplitPane splits an existing pane in the given direction, seeding the
	// new pane with the working directory, and returns the new pane's ID.
	SplitPane(ctx context.Context, paneID string, dir layout.SplitDirection, cwd string) (newPaneID string, err error)

	// SendText injects literal text into a pane, as if typed.
	SendText(ctx context.Context, paneID, text string) error

	// ActivatePane gives focus to a pane.
	ActivatePane(ctx context.Context, paneID string) error

	// ZoomPane toggles a pane to the zoomed state.
	ZoomPane(ctx context.Context, paneID string) error

	// CloseWorkspace kills every pane of a workspace, removing it.
	CloseWorkspace(ctx context.Context, name string) error
}
