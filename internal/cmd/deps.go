package cmd

import (
	"fmt"

	"github.com/wezkeep/wezkeep/internal/config"
	"github.com/wezkeep/wezkeep/internal/filelock"
	"github.com/wezkeep/wezkeep/internal/host"
	"github.com/wezkeep/wezkeep/internal/lifecycle"
	"github.com/wezkeep/wezkeep/internal/logging"
	"github.com/wezkeep/wezkeep/internal/replay"
	"github.com/wezkeep/wezkeep/internal/store"
)

// app bundles the wired components every command needs.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	host    host.Host
	store   *store.Store
	ctl     *lifecycle.Controller
	suspend *filelock.Marker
}

// newApp loads configuration and wires the controller against the live
// wezterm host. The restore latch is the marker file in the save directory:
// restores and the autosave loop run in separate wezkeep processes, so an
// in-memory latch could never reach the scheduler.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
	}

	h := host.NewWezTerm()
	saveDir := cfg.Store.ResolveSaveDir()
	st := store.New(saveDir)
	suspend := filelock.NewMarker(saveDir)

	rules := make([]replay.Rule, 0, len(cfg.Restore.ProcessRules))
	for _, r := range cfg.Restore.SortedRules() {
		rules = append(rules, replay.Rule{Name: r.Name, Match: r.Match, Command: r.Command})
	}
	eng := replay.New(h, rules)

	ctl := lifecycle.NewController(h, st, eng, suspend, cfg, logger)

	return &app{cfg: cfg, logger: logger, host: h, store: st, ctl: ctl, suspend: suspend}, nil
}

// close flushes the app's logger.
func (a *app) close() {
	_ = a.logger.Close()
}
