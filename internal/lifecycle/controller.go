// Package lifecycle orchestrates the user-facing flows: save, restore,
// switch, create, and delete. It composes the collector, store, and replay
// engine and owns the restore-suspend state machine that keeps autosave from
// snapshotting a workspace mid-replay.
package lifecycle

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/wezkeep/wezkeep/internal/config"
	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/host"
	"github.com/wezkeep/wezkeep/internal/logging"
	"github.com/wezkeep/wezkeep/internal/replay"
	"github.com/wezkeep/wezkeep/internal/snapshot"
	"github.com/wezkeep/wezkeep/internal/store"
)

// Suspender is the autosave latch the controller holds during restores.
// Restores and the autosave loop run in separate wezkeep processes, so the
// production latch is the marker file in the save directory; tests use
// in-memory recorders.
type Suspender interface {
	Suspend()
	Resume()
}

// nopSuspender is the fallback when no latch is supplied.
type nopSuspender struct{}

func (nopSuspender) Suspend() {}
func (nopSuspender) Resume()  {}

// createSaveDelay is how long the create flow waits before taking the first
// snapshot of a new workspace, letting the host finish the switch.
const createSaveDelay = 500 * time.Millisecond

// Controller wires the save/restore primitives into complete flows.
type Controller struct {
	host   host.Host
	store  *store.Store
	engine *replay.Engine
	latch  Suspender
	cfg    *config.Config
	logger *logging.Logger

	// schedule defers a continuation, time.AfterFunc by default. Tests
	// replace it to run continuations synchronously.
	schedule func(d time.Duration, fn func())

	mu        sync.Mutex
	restoring bool
}

// NewController creates a Controller. A nil latch leaves restore suspension
// unsignalled.
func NewController(h host.Host, st *store.Store, eng *replay.Engine, latch Suspender, cfg *config.Config, logger *logging.Logger) *Controller {
	if latch == nil {
		latch = nopSuspender{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Controller{
		host:   h,
		store:  st,
		engine: eng,
		latch:  latch,
		cfg:    cfg,
		logger: logger,
		schedule: func(d time.Duration, fn func()) {
			if d <= 0 {
				fn()
				return
			}
			time.AfterFunc(d, fn)
		},
	}
}

// Save snapshots the named live workspace into its slot. An empty name means
// the active workspace. Saving a name without an existing slot registers it,
// so the capacity gate applies; refreshing an existing slot always succeeds
// capacity-wise.
func (c *Controller) Save(ctx context.Context, name string) error {
	if name == "" {
		active, err := c.host.ActiveWorkspace(ctx)
		if err != nil {
			return err
		}
		name = active
	}

	if !c.store.Registered(name) {
		if err := c.CheckCapacity(); err != nil {
			return err
		}
	}

	snap, err := snapshot.Collect(ctx, c.host, name)
	if err != nil {
		return err
	}
	if err := c.store.Save(snap); err != nil {
		return err
	}

	c.logger.WithWorkspace(name).WithOperation("save").Info("workspace saved",
		"tabs", len(snap.Tabs), "panes", snap.PaneCount())
	return nil
}

// AutosaveTick is the SaveFunc handed to the autosave scheduler. It refreshes
// the active workspace's slot and never registers a new one; unregistered
// workspaces are skipped silently.
func (c *Controller) AutosaveTick(ctx context.Context) error {
	c.mu.Lock()
	restoring := c.restoring
	c.mu.Unlock()
	if restoring {
		return nil
	}

	name, err := c.host.ActiveWorkspace(ctx)
	if err != nil {
		return err
	}
	if name == "" || !c.store.Registered(name) {
		return nil
	}

	snap, err := snapshot.Collect(ctx, c.host, name)
	if err != nil {
		return err
	}
	if err := c.store.Save(snap); err != nil {
		return err
	}
	c.logger.WithWorkspace(name).WithOperation("autosave").Info("workspace refreshed")
	return nil
}

// Restore loads the named slot and replays it onto the active workspace. An
// empty name means the active workspace's own slot, mirroring Save. Only one
// restore may run at a time; the latch suspends autosave for the duration
// plus the configured settle delay.
func (c *Controller) Restore(ctx context.Context, name string) error {
	if name == "" {
		active, err := c.host.ActiveWorkspace(ctx)
		if err != nil {
			return err
		}
		name = active
	}

	c.mu.Lock()
	if c.restoring {
		c.mu.Unlock()
		return errors.ErrRestoreInProgress
	}
	c.restoring = true
	c.mu.Unlock()
	c.latch.Suspend()

	snap, err := c.store.Load(name)
	if err != nil {
		// Nothing was touched; release immediately.
		c.endRestore(0)
		return err
	}

	target, err := c.host.ActiveWorkspace(ctx)
	if err != nil {
		c.endRestore(0)
		return err
	}

	log := c.logger.WithWorkspace(name).WithOperation("restore")
	if err := c.engine.Replay(ctx, snap, target); err != nil {
		if errors.Is(err, errors.ErrPreconditionFailed) {
			c.endRestore(0)
			return err
		}
		// A partial layout exists; give it the settle window anyway.
		log.Warn("replay halted", "error", err.Error())
		c.endRestore(c.cfg.Restore.SettleDelay())
		return err
	}

	log.Info("workspace restored", "tabs", len(snap.Tabs), "panes", snap.PaneCount())
	c.endRestore(c.cfg.Restore.SettleDelay())
	return nil
}

// endRestore clears the restoring flag and releases the autosave latch after
// the settle window.
func (c *Controller) endRestore(settle time.Duration) {
	c.schedule(settle, func() {
		c.mu.Lock()
		c.restoring = false
		c.mu.Unlock()
		c.latch.Resume()
	})
}

// SwitchTo activates a live workspace. If the workspace being left is
// unregistered and a lone idle shell, and the cleanup policy is enabled, it
// is closed on the way out.
func (c *Controller) SwitchTo(ctx context.Context, name string) error {
	prev, err := c.host.ActiveWorkspace(ctx)
	if err != nil {
		return err
	}
	if err := c.host.SwitchWorkspace(ctx, name); err != nil {
		return err
	}
	if c.cfg.Cleanup.CloseEmptyOnSwitch {
		c.closeIfAbandoned(ctx, prev, name)
	}
	return nil
}

// SwitchToSaved switches to the named workspace (creating it fresh) and
// replays its slot into it.
func (c *Controller) SwitchToSaved(ctx context.Context, name string) error {
	if !c.store.Registered(name) {
		return errors.ErrNotFound
	}
	if err := c.SwitchTo(ctx, name); err != nil {
		return err
	}
	return c.Restore(ctx, name)
}

// CreateWorkspace switches to a brand-new workspace and registers it with an
// initial save. The previous workspace is closed if it was an abandoned
// idle shell. Creation is refused at capacity; the caller runs the delete
// flow and retries.
func (c *Controller) CreateWorkspace(ctx context.Context, name string) error {
	if err := c.CheckCapacity(); err != nil {
		return err
	}

	prev, err := c.host.ActiveWorkspace(ctx)
	if err != nil {
		return err
	}
	if err := c.host.SwitchWorkspace(ctx, name); err != nil {
		return err
	}

	// The host needs a moment to finish the switch before the first
	// snapshot is meaningful.
	c.schedule(createSaveDelay, func() {
		if err := c.Save(context.Background(), name); err != nil {
			c.logger.WithWorkspace(name).Warn("initial save failed", "error", err.Error())
		}
	})

	c.closeIfAbandoned(ctx, prev, name)
	return nil
}

// closeIfAbandoned closes prev when it is unregistered and a lone idle
// shell. Failures are logged; losing the cleanup is harmless.
func (c *Controller) closeIfAbandoned(ctx context.Context, prev, current string) {
	if prev == "" || prev == current || c.store.Registered(prev) {
		return
	}
	empty, err := snapshot.IsEmptyWorkspace(ctx, c.host, prev, c.cfg.Cleanup.IdleShellSuffixes)
	if err != nil || !empty {
		return
	}
	if err := c.host.CloseWorkspace(ctx, prev); err != nil {
		c.logger.WithWorkspace(prev).Warn("failed to close abandoned workspace", "error", err.Error())
		return
	}
	c.logger.WithWorkspace(prev).Info("closed abandoned workspace")
}

// CheckCapacity returns ErrAtCapacity when the store is full. Nothing is
// ever evicted automatically; the user chooses what to delete.
func (c *Controller) CheckCapacity() error {
	n, err := c.store.Count()
	if err != nil {
		return err
	}
	if n >= c.cfg.Store.MaxSavedWorkspaces {
		return errors.Wrapf(errors.ErrAtCapacity, "%d of %d slots used", n, c.cfg.Store.MaxSavedWorkspaces)
	}
	return nil
}

// Delete removes a slot, unregistering the workspace.
func (c *Controller) Delete(name string) error {
	if err := c.store.Delete(name); err != nil {
		return err
	}
	c.logger.WithWorkspace(name).WithOperation("delete").Info("slot deleted")
	return nil
}

// DeleteAll wipes every slot in the store.
func (c *Controller) DeleteAll() error {
	return c.store.DeleteAll()
}

// SlotInfo describes one saved workspace for listings.
type SlotInfo struct {
	Name    string
	Tabs    int
	Panes   int
	ModTime time.Time
	Corrupt bool
	LiveNow bool
}

// List describes every slot, annotating corrupt files and whether a live
// workspace with the same name currently exists.
func (c *Controller) List(ctx context.Context) ([]SlotInfo, error) {
	names, err := c.store.List()
	if err != nil {
		return nil, err
	}

	live := map[string]bool{}
	if liveNames, err := c.host.ListWorkspaces(ctx); err == nil {
		for _, n := range liveNames {
			live[n] = true
		}
	}

	infos := make([]SlotInfo, 0, len(names))
	for _, name := range names {
		info := SlotInfo{Name: name, LiveNow: live[name]}
		if fi, err := c.store.Stat(name); err == nil {
			info.ModTime = fi.ModTime()
		}
		snap, err := c.store.Load(name)
		if err != nil {
			info.Corrupt = true
		} else {
			info.Tabs = len(snap.Tabs)
			info.Panes = snap.PaneCount()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// StaleSlots returns the names of slots whose workspaces no longer exist
// live. The watch loop logs them; nothing is deleted automatically.
func (c *Controller) StaleSlots(ctx context.Context) ([]string, error) {
	names, err := c.store.List()
	if err != nil {
		return nil, err
	}
	liveNames, err := c.host.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	live := make(map[string]bool, len(liveNames))
	for _, n := range liveNames {
		live[n] = true
	}

	var stale []string
	for _, name := range names {
		if !live[name] {
			stale = append(stale, name)
		}
	}
	return stale, nil
}

// Hostname is used by the watch loop's startup log line.
func Hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
