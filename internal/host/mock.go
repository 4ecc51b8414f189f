package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/layout"
)

// Op records one mutating operation issued against a Mock host, so tests can
// assert the exact sequence of spawns, splits, and injected text.
type Op struct {
	Kind      string // "spawn", "split", "send", "activate", "zoom", "switch", "close"
	Workspace string
	PaneID    string
	Dir       layout.SplitDirection
	Cwd       string
	Text      string
}

// Mock is an in-memory Host for tests. It maintains a real workspace/tab/pane
// structure that mutates under SpawnTab and SplitPane, records every mutating
// operation, and supports scripted spawn failures.
type Mock struct {
	mu         sync.Mutex
	workspaces map[string][]Tab
	active     string
	nextPane   int
	nextTab    int

	// Ops is the recorded operation log in issue order.
	Ops []Op

	// FailSpawnAt makes the Nth SpawnTab call (1-based) fail with a host
	// error. Zero disables failure injection.
	FailSpawnAt int
	spawnCalls  int

	// ListErr, when set, is returned by all read operations.
	ListErr error
}

// NewMock returns an empty Mock host.
func NewMock() *Mock {
	return &Mock{workspaces: make(map[string][]Tab)}
}

// AddWorkspace installs a workspace with the given tabs, assigning pane IDs
// if the caller left them empty.
func (m *Mock) AddWorkspace(name string, tabs []Tab) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ti := range tabs {
		if tabs[ti].ID == "" {
			tabs[ti].ID = fmt.Sprintf("tab-%d", m.nextTab)
			m.nextTab++
		}
		for pi := range tabs[ti].Panes {
			if tabs[ti].Panes[pi].ID == "" {
				tabs[ti].Panes[pi].ID = fmt.Sprintf("pane-%d", m.nextPane)
				m.nextPane++
			}
			tabs[ti].Panes[pi].Index = pi
		}
	}
	m.workspaces[name] = tabs
	if m.active == "" {
		m.active = name
	}
}

// FreshWorkspace installs a workspace containing a single tab with a single
// idle pane, the shape the replay precondition requires.
func (m *Mock) FreshWorkspace(name, shell string) {
	m.AddWorkspace(name, []Tab{
		{Panes: []Pane{{IsActive: true, Width: 80, Height: 24, CwdURI: "file://localhost/home/user", ForegroundProcess: shell}}},
	})
}

func (m *Mock) record(op Op) {
	m.Ops = append(m.Ops, op)
}

// OpsOfKind filters the recorded log by kind.
func (m *Mock) OpsOfKind(kind string) []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Op
	for _, op := range m.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// ListWorkspaces returns workspace names in map order.
func (m *Mock) ListWorkspaces(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	names := make([]string, 0, len(m.workspaces))
	for name := range m.workspaces {
		names = append(names, name)
	}
	return names, nil
}

// ActiveWorkspace returns the currently active workspace name.
func (m *Mock) ActiveWorkspace(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return "", m.ListErr
	}
	return m.active, nil
}

// SwitchWorkspace activates the named workspace, creating a fresh one if
// needed.
func (m *Mock) SwitchWorkspace(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return m.ListErr
	}
	if _, ok := m.workspaces[name]; !ok {
		tab := Tab{
			ID: fmt.Sprintf("tab-%d", m.nextTab),
			Panes: []Pane{{
				ID:                fmt.Sprintf("pane-%d", m.nextPane),
				IsActive:          true,
				Width:             80,
				Height:            24,
				ForegroundProcess: "/bin/zsh",
			}},
		}
		m.nextTab++
		m.nextPane++
		m.workspaces[name] = []Tab{tab}
	}
	m.active = name
	m.record(Op{Kind: "switch", Workspace: name})
	return nil
}

// Tabs returns a deep copy of the workspace's tabs.
func (m *Mock) Tabs(ctx context.Context, workspace string) ([]Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tabs, ok := m.workspaces[workspace]
	if !ok {
		return nil, nil
	}
	out := make([]Tab, len(tabs))
	for i, tab := range tabs {
		out[i] = Tab{ID: tab.ID, Panes: append([]Pane(nil), tab.Panes...)}
	}
	return out, nil
}

// SpawnTab appends a new single-pane tab to the workspace.
func (m *Mock) SpawnTab(ctx context.Context, workspace, cwd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.spawnCalls++
	if m.FailSpawnAt > 0 && m.spawnCalls >= m.FailSpawnAt {
		return "", errors.NewHostError("scripted spawn failure", errors.ErrHostOperation)
	}

	paneID := fmt.Sprintf("pane-%d", m.nextPane)
	m.nextPane++
	tab := Tab{
		ID:    fmt.Sprintf("tab-%d", m.nextTab),
		Panes: []Pane{{ID: paneID, IsActive: true, Width: 80, Height: 24, CwdURI: "file://localhost" + cwd}},
	}
	m.nextTab++
	m.workspaces[workspace] = append(m.workspaces[workspace], tab)
	m.record(Op{Kind: "spawn", Workspace: workspace, PaneID: paneID, Cwd: cwd})
	return paneID, nil
}

// SplitPane splits an existing pane, appending the new pane to its tab in
// creation order.
func (m *Mock) SplitPane(ctx context.Context, paneID string, dir layout.SplitDirection, cwd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ws, tabs := range m.workspaces {
		for ti := range tabs {
			for _, p := range tabs[ti].Panes {
				if p.ID != paneID {
					continue
				}
				newID := fmt.Sprintf("pane-%d", m.nextPane)
				m.nextPane++
				m.workspaces[ws][ti].Panes = append(m.workspaces[ws][ti].Panes, Pane{
					ID:     newID,
					Index:  len(m.workspaces[ws][ti].Panes),
					CwdURI: "file://localhost" + cwd,
				})
				m.record(Op{Kind: "split", Workspace: ws, PaneID: paneID, Dir: dir, Cwd: cwd})
				return newID, nil
			}
		}
	}
	return "", errors.NewHostError(fmt.Sprintf("pane %s not found", paneID), errors.ErrHostOperation)
}

// SendText records injected text.
func (m *Mock) SendText(ctx context.Context, paneID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Op{Kind: "send", PaneID: paneID, Text: text})
	return nil
}

// ActivatePane records the focus change.
func (m *Mock) ActivatePane(ctx context.Context, paneID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Op{Kind: "activate", PaneID: paneID})
	return nil
}

// ZoomPane records the zoom.
func (m *Mock) ZoomPane(ctx context.Context, paneID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Op{Kind: "zoom", PaneID: paneID})
	return nil
}

// CloseWorkspace removes the workspace.
func (m *Mock) CloseWorkspace(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, name)
	if m.active == name {
		m.active = ""
	}
	m.record(Op{Kind: "close", Workspace: name})
	return nil
}

var _ Host = (*Mock)(nil)
var _ Host = (*WezTerm)(nil)
