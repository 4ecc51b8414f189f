package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [name...]",
	Short: "Delete saved workspaces",
	Long: `Remove save slots, unregistering the workspaces. With no arguments an
interactive selection loop runs until cancelled. Deleting a name that has
no slot is not an error.`,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every saved workspace")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if deleteAll {
		if err := a.ctl.DeleteAll(); err != nil {
			return err
		}
		fmt.Println("All saved workspaces deleted.")
		return nil
	}

	if len(args) == 0 {
		return deleteLoop(cmd.Context(), a)
	}

	for _, name := range args {
		if err := a.ctl.Delete(name); err != nil {
			return err
		}
		fmt.Printf("Deleted %q.\n", name)
	}
	return nil
}
