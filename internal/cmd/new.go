package cmd

import (
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create and register a new workspace",
	Long: `Switch to a brand-new workspace and save it immediately, registering it
for autosave. With no argument a name is prompted for. If the previous
workspace was an unsaved idle shell it is closed on the way out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return createFlow(cmd.Context(), a, name)
}
