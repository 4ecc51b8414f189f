// Package replay reconstructs a live workspace layout from a snapshot.
//
// After the fresh-target precondition has been checked, a failed spawn or
// split halts the run and leaves the partial layout in place; the user
// re-runs the restore. There is no rollback.
package replay

import (
	"context"
	"os"
	"strings"

	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/host"
	"github.com/wezkeep/wezkeep/internal/layout"
)

// Rule maps a foreground-process substring to a command template that
// restarts the process in a restored pane. Templates may reference {tty}
// (the recorded foreground-process string) and {cwd} (the resolved
// working directory).
type Rule struct {
	Name    string
	Match   string
	Command string
}

// Engine replays snapshots onto a live host.
type Engine struct {
	host  host.Host
	rules []Rule
	home  string
}

// New creates an Engine. rules drive foreground-process restoration; the
// first rule whose Match substring occurs in a pane's recorded process wins.
func New(h host.Host, rules []Rule) *Engine {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return &Engine{host: h, rules: rules, home: home}
}

// WithHome overrides the home directory fallback, for tests.
func (e *Engine) WithHome(home string) *Engine {
	e.home = home
	return e
}

// ResolveCwd converts a cwd URI (file://host/path) into a filesystem path by
// stripping the scheme and authority. An empty result falls back to home.
func ResolveCwd(uri, home string) string {
	path := uri
	if idx := strings.Index(path, "://"); idx >= 0 {
		path = path[idx+3:]
		// Drop the authority component (hostname before the first slash).
		if slash := strings.Index(path, "/"); slash >= 0 {
			path = path[slash:]
		} else {
			path = ""
		}
	}
	if path == "" {
		return home
	}
	return path
}

// Replay rebuilds the snapshot's layout inside targetWorkspace.
//
// Precondition: the target must expose exactly one tab containing exactly
// one pane. A non-fresh target returns ErrPreconditionFailed before any
// mutation. The existing tab is reused for the snapshot's first tab (a
// directory change plus a screen clear, preserving the fresh-shell
// illusion); every later tab is spawned. A spawn or split that returns no
// handle halts the replay; whatever was built stays.
func (e *Engine) Replay(ctx context.Context, snap *layout.WorkspaceSnapshot, targetWorkspace string) error {
	tabs, err := e.host.Tabs(ctx, targetWorkspace)
	if err != nil {
		return err
	}
	if len(tabs) != 1 || len(tabs[0].Panes) != 1 {
		return errors.Wrapf(errors.ErrPreconditionFailed,
			"workspace %q has %d tabs", targetWorkspace, len(tabs))
	}
	initialPane := tabs[0].Panes[0].ID

	for ti, tab := range snap.Tabs {
		firstCwd := ResolveCwd(tab.Panes[0].Cwd, e.home)

		var paneID string
		if ti == 0 {
			// Reuse the target's only pane instead of spawning.
			paneID = initialPane
			if err := e.host.SendText(ctx, paneID, "cd "+firstCwd+"\n"); err != nil {
				return errors.NewReplayError("failed to seed initial pane", err).
					WithWorkspace(snap.Name).WithTab(ti)
			}
			if err := e.host.SendText(ctx, paneID, "clear\n"); err != nil {
				return errors.NewReplayError("failed to clear initial pane", err).
					WithWorkspace(snap.Name).WithTab(ti)
			}
		} else {
			paneID, err = e.host.SpawnTab(ctx, targetWorkspace, firstCwd)
			if err != nil || paneID == "" {
				// Halt; the partially replayed layout is the outcome.
				return errors.NewReplayError("tab spawn returned no handle", hostCause(err)).
					WithWorkspace(snap.Name).WithTab(ti)
			}
		}

		if err := e.replayTab(ctx, snap.Name, ti, tab, paneID); err != nil {
			return err
		}
	}
	return nil
}

// replayTab builds out one tab from its first pane, then restores focus and
// zoom state.
func (e *Engine) replayTab(ctx context.Context, wsName string, ti int, tab layout.TabSnapshot, firstPaneID string) error {
	paneIDs := make([]string, 0, len(tab.Panes))
	paneIDs = append(paneIDs, firstPaneID)

	e.restartProcess(ctx, firstPaneID, tab.Panes[0])

	dirs := layout.SplitDirections(tab.Panes)
	for j := 1; j < len(tab.Panes); j++ {
		pane := tab.Panes[j]
		cwd := ResolveCwd(pane.Cwd, e.home)

		newID, err := e.host.SplitPane(ctx, paneIDs[j-1], dirs[j-1], cwd)
		if err != nil || newID == "" {
			return errors.NewReplayError("split returned no handle", hostCause(err)).
				WithWorkspace(wsName).WithTab(ti).WithPane(j)
		}
		paneIDs = append(paneIDs, newID)

		e.restartProcess(ctx, newID, pane)
	}

	// Focus and zoom restoration run after the tab's geometry is settled.
	for j, pane := range tab.Panes {
		if pane.IsZoomed {
			_ = e.host.ZoomPane(ctx, paneIDs[j])
		}
	}
	for j, pane := range tab.Panes {
		if pane.IsActive {
			_ = e.host.ActivatePane(ctx, paneIDs[j])
			break
		}
	}
	return nil
}

// hostCause classifies a failed spawn or split. A host returning an empty
// handle with a nil error is still a host operation failure.
func hostCause(err error) error {
	if err != nil {
		return err
	}
	return errors.ErrHostOperation
}

// restartProcess matches the pane's recorded foreground process against the
// configured rules and, on a match, types the rendered command into the pane
// followed by enter. Injection failures are ignored; the pane still exists.
func (e *Engine) restartProcess(ctx context.Context, paneID string, pane layout.PaneSnapshot) {
	if pane.Tty == "" {
		return
	}
	for _, rule := range e.rules {
		if rule.Match == "" || !strings.Contains(pane.Tty, rule.Match) {
			continue
		}
		cmd := RenderCommand(rule.Command, pane.Tty, ResolveCwd(pane.Cwd, e.home))
		_ = e.host.SendText(ctx, paneID, cmd+"\n")
		return
	}
}

// RenderCommand substitutes {tty} and {cwd} placeholders in a rule template.
func RenderCommand(template, tty, cwd string) string {
	out := strings.ReplaceAll(template, "{tty}", tty)
	return strings.ReplaceAll(out, "{cwd}", cwd)
}
