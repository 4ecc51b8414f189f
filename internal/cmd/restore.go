package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wezkeep/wezkeep/internal/errors"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Replay a saved layout onto the current workspace",
	Long: `Rebuild a saved workspace layout. With no argument the active workspace's
own slot is restored. The current workspace must be fresh: exactly one tab
with exactly one pane. Tabs and splits are recreated in recorded order,
working directories are restored, and matched foreground processes are
restarted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// No argument means the active workspace's own slot, as with save; the
	// emitted key binding invokes restore bare.
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	label := "the active workspace"
	if name != "" {
		label = fmt.Sprintf("workspace %q", name)
	}

	err = a.ctl.Restore(cmd.Context(), name)
	switch {
	case err == nil:
		fmt.Printf("Restored %s.\n", label)
		return nil
	case errors.Is(err, errors.ErrNotFound):
		return fmt.Errorf("no save slot for %s: run 'wezkeep list' to see what exists", label)
	case errors.Is(err, errors.ErrCorruptedSnapshot):
		return fmt.Errorf("the save file for %s exists but is unreadable: %w", label, err)
	case errors.Is(err, errors.ErrPreconditionFailed):
		return fmt.Errorf("restore needs a fresh workspace (one tab, one pane); switch to an empty one first")
	default:
		return err
	}
}
