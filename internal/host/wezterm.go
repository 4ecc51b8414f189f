package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/layout"
)

// Binary is the name of the wezterm executable.
const Binary = "wezterm"

// WezTerm implements Host by shelling out to the wezterm CLI.
// All operations go through `wezterm cli <subcommand>`.
type WezTerm struct {
	// binary overrides the executable path, for tests. Empty means Binary.
	binary string
}

// NewWezTerm returns a Host backed by the wezterm CLI on PATH.
func NewWezTerm() *WezTerm {
	return &WezTerm{}
}

// command creates a context-aware exec.Cmd for a wezterm cli subcommand.
func (w *WezTerm) command(ctx context.Context, args ...string) *exec.Cmd {
	bin := w.binary
	if bin == "" {
		bin = Binary
	}
	fullArgs := append([]string{"cli"}, args...)
	return exec.CommandContext(ctx, bin, fullArgs...)
}

// run executes a wezterm cli subcommand and returns its trimmed stdout.
func (w *WezTerm) run(ctx context.Context, args ...string) (string, error) {
	cmd := w.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", errors.NewHostError("wezterm cli failed", err).
			WithCommand("wezterm cli " + strings.Join(args, " ")).
			WithOutput(strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// listEntry is one row of `wezterm cli list --format json`.
type listEntry struct {
	WindowID  int    `json:"window_id"`
	TabID     int    `json:"tab_id"`
	PaneID    int    `json:"pane_id"`
	Workspace string `json:"workspace"`
	Title     string `json:"title"`
	Cwd       string `json:"cwd"`
	TtyName   string `json:"tty_name"`
	IsActive  bool   `json:"is_active"`
	IsZoomed  bool   `json:"is_zoomed"`
	LeftCol   int    `json:"left_col"`
	TopRow    int    `json:"top_row"`
	Size      struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	} `json:"size"`
}

func (w *WezTerm) list(ctx context.Context) ([]listEntry, error) {
	out, err := w.run(ctx, "list", "--format", "json")
	if err != nil {
		return nil, err
	}
	return parsePaneList([]byte(out))
}

func parsePaneList(data []byte) ([]listEntry, error) {
	var entries []listEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewHostError("failed to parse pane list", err)
	}
	return entries, nil
}

// ListWorkspaces returns the distinct workspace names in pane-list order.
func (w *WezTerm) ListWorkspaces(ctx context.Context) ([]string, error) {
	entries, err := w.list(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if !seen[e.Workspace] {
			seen[e.Workspace] = true
			names = append(names, e.Workspace)
		}
	}
	return names, nil
}

// clientEntry is one row of `wezterm cli list-clients --format json`.
type clientEntry struct {
	FocusedPaneID int  `json:"focused_pane_id"`
	IsFocused     bool `json:"is_focused"`
}

// ActiveWorkspace resolves the focused client's pane to its workspace.
func (w *WezTerm) ActiveWorkspace(ctx context.Context) (string, error) {
	out, err := w.run(ctx, "list-clients", "--format", "json")
	if err != nil {
		return "", err
	}
	var clients []clientEntry
	if err := json.Unmarshal([]byte(out), &clients); err != nil {
		return "", errors.NewHostError("failed to parse client list", err)
	}

	focused := -1
	for _, c := range clients {
		if c.IsFocused || focused < 0 {
			focused = c.FocusedPaneID
		}
		if c.IsFocused {
			break
		}
	}
	if focused < 0 {
		return "", errors.NewHostError("no focused client", nil)
	}

	entries, err := w.list(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.PaneID == focused {
			return e.Workspace, nil
		}
	}
	return "", errors.NewHostError(fmt.Sprintf("focused pane %d not in pane list", focused), nil)
}

// SwitchWorkspace focuses the named workspace. A workspace that does not
// exist yet is created by spawning a fresh window into it.
func (w *WezTerm) SwitchWorkspace(ctx context.Context, name string) error {
	entries, err := w.list(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Workspace == name {
			return w.ActivatePane(ctx, fmt.Sprintf("%d", e.PaneID))
		}
	}
	_, err = w.run(ctx, "spawn", "--new-window", "--workspace", name)
	return err
}

// Tabs returns the workspace's tabs with panes in creation order.
// wezterm assigns pane IDs monotonically, so within a tab the numeric pane
// ID order is the creation/split order the replay engine needs.
func (w *WezTerm) Tabs(ctx context.Context, workspace string) ([]Tab, error) {
	entries, err := w.list(ctx)
	if err != nil {
		return nil, err
	}
	tabs := groupTabs(entries, workspace)

	// Resolve foreground processes after grouping so a ps failure for one
	// pane degrades to an empty identifier instead of failing the snapshot.
	for ti := range tabs {
		for pi := range tabs[ti].Panes {
			tty := tabs[ti].Panes[pi].ForegroundProcess
			tabs[ti].Panes[pi].ForegroundProcess = w.foregroundProcess(ctx, tty)
		}
	}
	return tabs, nil
}

// groupTabs filters entries to one workspace and groups them into tabs.
// The ForegroundProcess field temporarily carries the pane's tty name until
// the caller resolves it to a process path.
func groupTabs(entries []listEntry, workspace string) []Tab {
	byTab := make(map[int][]listEntry)
	var tabOrder []int
	for _, e := range entries {
		if e.Workspace != workspace {
			continue
		}
		if _, ok := byTab[e.TabID]; !ok {
			tabOrder = append(tabOrder, e.TabID)
		}
		byTab[e.TabID] = append(byTab[e.TabID], e)
	}

	tabs := make([]Tab, 0, len(tabOrder))
	for _, tabID := range tabOrder {
		panes := byTab[tabID]
		sort.SliceStable(panes, func(i, j int) bool { return panes[i].PaneID < panes[j].PaneID })

		tab := Tab{ID: fmt.Sprintf("%d", tabID)}
		for i, p := range panes {
			tab.Panes = append(tab.Panes, Pane{
				ID:                fmt.Sprintf("%d", p.PaneID),
				Index:             i,
				IsActive:          p.IsActive,
				IsZoomed:          p.IsZoomed,
				Left:              p.LeftCol,
				Top:               p.TopRow,
				Width:             p.Size.Cols,
				Height:            p.Size.Rows,
				CwdURI:            p.Cwd,
				ForegroundProcess: p.TtyName,
			})
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

// foregroundProcess resolves a pane tty to the foreground process command
// path via ps. Returns empty on any failure; snapshots tolerate the gap.
func (w *WezTerm) foregroundProcess(ctx context.Context, tty string) string {
	tty = strings.TrimPrefix(tty, "/dev/")
	if tty == "" {
		return ""
	}
	out, err := exec.CommandContext(ctx, "ps", "-o", "stat=,args=", "-t", tty).Output()
	if err != nil {
		return ""
	}
	return parseForeground(string(out))
}

// parseForeground picks the foreground ("+" state) process from ps output
// and returns its command path (first token of args).
func parseForeground(psOutput string) string {
	var fallback string
	for _, line := range strings.Split(psOutput, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		stat, args := fields[0], fields[1]
		if fallback == "" {
			fallback = args
		}
		if strings.Contains(stat, "+") {
			return args
		}
	}
	return fallback
}

// SpawnTab creates a new tab in the workspace's existing window, or a new
// window when the workspace has none, and returns the initial pane's ID.
func (w *WezTerm) SpawnTab(ctx context.Context, workspace, cwd string) (string, error) {
	entries, err := w.list(ctx)
	if err != nil {
		return "", err
	}

	args := []string{"spawn"}
	windowID := -1
	for _, e := range entries {
		if e.Workspace == workspace {
			windowID = e.WindowID
			break
		}
	}
	if windowID >= 0 {
		args = append(args, "--window-id", fmt.Sprintf("%d", windowID))
	} else {
		args = append(args, "--new-window", "--workspace", workspace)
	}
	if cwd != "" {
		args = append(args, "--cwd", cwd)
	}

	out, err := w.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.NewHostError("spawn returned no pane id", nil).
			WithCommand("wezterm cli spawn")
	}
	return out, nil
}

// SplitPane splits an existing pane and returns the new pane's ID.
func (w *WezTerm) SplitPane(ctx context.Context, paneID string, dir layout.SplitDirection, cwd string) (string, error) {
	args := []string{"split-pane", "--pane-id", paneID}
	switch dir {
	case layout.SplitBottom:
		args = append(args, "--bottom")
	case layout.SplitRight:
		args = append(args, "--right")
	default:
		return "", errors.NewHostError(fmt.Sprintf("unknown split direction %q", dir), nil)
	}
	if cwd != "" {
		args = append(args, "--cwd", cwd)
	}

	out, err := w.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.NewHostError("split-pane returned no pane id", nil).
			WithCommand("wezterm cli split-pane")
	}
	return out, nil
}

// SendText injects literal text into a pane. Text goes over stdin so shell
// metacharacters survive intact.
func (w *WezTerm) SendText(ctx context.Context, paneID, text string) error {
	cmd := w.command(ctx, "send-text", "--pane-id", paneID, "--no-paste")
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.NewHostError("send-text failed", err).
			WithCommand("wezterm cli send-text").
			WithOutput(strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ActivatePane gives focus to a pane.
func (w *WezTerm) ActivatePane(ctx context.Context, paneID string) error {
	_, err := w.run(ctx, "activate-pane", "--pane-id", paneID)
	return err
}

// ZoomPane puts a pane into the zoomed state.
func (w *WezTerm) ZoomPane(ctx context.Context, paneID string) error {
	_, err := w.run(ctx, "zoom-pane", "--pane-id", paneID, "--zoom")
	return err
}

// CloseWorkspace kills every pane of the workspace, which removes it.
func (w *WezTerm) CloseWorkspace(ctx context.Context, name string) error {
	entries, err := w.list(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Workspace != name {
			continue
		}
		if _, err := w.run(ctx, "kill-pane", "--pane-id", fmt.Sprintf("%d", e.PaneID)); err != nil {
			return err
		}
	}
	return nil
}
