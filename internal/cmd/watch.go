package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wezkeep/wezkeep/internal/autosave"
	"github.com/wezkeep/wezkeep/internal/filelock"
	"github.com/wezkeep/wezkeep/internal/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the autosave loop",
	Long: `Periodically refresh the save slot of the active workspace. Only
registered workspaces are touched; autosave never creates a slot. The loop
runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Autosave.Interval() <= 0 {
		return fmt.Errorf("autosave is disabled (autosave.interval_seconds = 0)")
	}

	// One autosave loop per save directory; two would race each other on
	// every slot refresh.
	lock := filelock.New(a.cfg.Store.ResolveSaveDir())
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("another wezkeep watch may be running: %w", err)
	}
	defer func() { _ = lock.Release() }()

	sched := autosave.New(a.cfg.Autosave.Interval(), a.cfg.Autosave.Debounce(), a.ctl.AutosaveTick, a.logger)
	// Restores run in separate wezkeep invocations; they signal through the
	// marker file in the save directory, checked on every tick.
	sched.GateWith(a.suspend.Active)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := a.logger.WithOperation("watch")

	// The loop runs with the config it started with; tell the user when the
	// file changes underneath it instead of silently ignoring the edit.
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed, restart watch to apply", "file", e.Name)
		fmt.Println("Config file changed; restart 'wezkeep watch' to apply.")
	})
	viper.WatchConfig()
	log.Info("autosave loop started",
		"host", lifecycle.Hostname(),
		"interval", a.cfg.Autosave.Interval().String())

	if stale, err := a.ctl.StaleSlots(ctx); err == nil && len(stale) > 0 {
		// Logged only; stale slots are never deleted automatically.
		log.Warn("saved workspaces with no live counterpart", "slots", stale)
	}

	fmt.Printf("Autosaving every %s. Press Ctrl+C to stop.\n", a.cfg.Autosave.Interval())
	sched.Run(ctx)
	return nil
}
