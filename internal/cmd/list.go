package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wezkeep/wezkeep/internal/util"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspaces",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	infos, err := a.ctl.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("No saved workspaces.")
		fmt.Println("Run 'wezkeep save' to save the current one.")
		return nil
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Saved workspaces (%d of %d)\n", len(infos), a.cfg.Store.MaxSavedWorkspaces)
	fmt.Println(strings.Repeat("─", 60))

	for _, info := range infos {
		fmt.Printf("  %s\n", util.TruncateString(info.Name, 56))
		if info.Corrupt {
			fmt.Println("    State:  unreadable save file")
		} else {
			fmt.Printf("    Layout: %d tab(s), %d pane(s)\n", info.Tabs, info.Panes)
		}
		if !info.ModTime.IsZero() {
			fmt.Printf("    Saved:  %s\n", info.ModTime.Format(time.RFC822))
		}
		if info.LiveNow {
			fmt.Println("    Live:   yes")
		}
		fmt.Println()
	}
	return nil
}
