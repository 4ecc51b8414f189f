// Package snapshot turns live host layouts into serializable workspace
// snapshots, and classifies workspaces for the auto-cleanup policy.
package snapshot

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/wezkeep/wezkeep/internal/host"
	"github.com/wezkeep/wezkeep/internal/layout"
)

// Collect walks the live workspace through the host interface and produces a
// snapshot. The host is never mutated. Pane order follows the host's
// enumeration order exactly; the replay engine infers split directions from
// it, so re-sorting here would corrupt restores.
//
// Host failures propagate unchanged; this function performs no recovery.
func Collect(ctx context.Context, h host.Host, workspace string) (*layout.WorkspaceSnapshot, error) {
	tabs, err := h.Tabs(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("workspace %q has no tabs", workspace)
	}

	snap := &layout.WorkspaceSnapshot{Name: workspace, Tabs: make([]layout.TabSnapshot, 0, len(tabs))}
	for _, tab := range tabs {
		tabID := tab.ID
		if tabID == "" {
			// Informational only; never reused on restore.
			tabID = uuid.NewString()
		}
		ts := layout.TabSnapshot{TabID: tabID, Panes: make([]layout.PaneSnapshot, 0, len(tab.Panes))}
		for _, p := range tab.Panes {
			ts.Panes = append(ts.Panes, layout.PaneSnapshot{
				Index:    p.Index,
				IsActive: p.IsActive,
				IsZoomed: p.IsZoomed,
				Left:     p.Left,
				Top:      p.Top,
				Width:    p.Width,
				Height:   p.Height,
				Cwd:      p.CwdURI,
				Tty:      p.ForegroundProcess,
			})
		}
		snap.Tabs = append(snap.Tabs, ts)
	}
	return snap, nil
}

// DefaultIdleShellSuffixes matches the common interactive shells: anything
// whose basename ends in "sh" (zsh, bash, dash, fish) plus nushell's "nu".
var DefaultIdleShellSuffixes = []string{"sh", "nu"}

// IsEmptyWorkspace reports whether a workspace is a lone idle shell: exactly
// one tab, exactly one pane, and a foreground process whose basename ends in
// one of the idle-shell suffixes. It gates auto-cleanup only; save and
// restore correctness never depend on it.
func IsEmptyWorkspace(ctx context.Context, h host.Host, workspace string, idleSuffixes []string) (bool, error) {
	tabs, err := h.Tabs(ctx, workspace)
	if err != nil {
		return false, err
	}
	if len(tabs) != 1 || len(tabs[0].Panes) != 1 {
		return false, nil
	}
	if len(idleSuffixes) == 0 {
		idleSuffixes = DefaultIdleShellSuffixes
	}
	proc := path.Base(tabs[0].Panes[0].ForegroundProcess)
	for _, suffix := range idleSuffixes {
		if strings.HasSuffix(proc, suffix) {
			return true, nil
		}
	}
	return false, nil
}
