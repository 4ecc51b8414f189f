package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wezkeep/wezkeep/internal/errors"
)

var saveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current workspace layout",
	Long: `Snapshot a live workspace into its save slot. With no argument the
active workspace is saved under its own name. Saving a new name registers
the workspace for autosave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	if err := a.ctl.Save(cmd.Context(), name); err != nil {
		if errors.Is(err, errors.ErrAtCapacity) {
			return fmt.Errorf("save limit reached (%d workspaces): delete one first with 'wezkeep delete'",
				a.cfg.Store.MaxSavedWorkspaces)
		}
		return err
	}

	if name == "" {
		fmt.Println("Workspace saved.")
	} else {
		fmt.Printf("Workspace %q saved.\n", name)
	}
	return nil
}
