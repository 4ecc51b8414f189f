package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wezkeep/wezkeep/internal/errors"
	"github.com/wezkeep/wezkeep/internal/lifecycle"
	"github.com/wezkeep/wezkeep/internal/ui"
	"github.com/wezkeep/wezkeep/internal/util"
)

// selectorLabelWidth keeps workspace names inside the picker's frame.
const selectorLabelWidth = 48

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Pick a workspace to switch to",
	Long: `Open the workspace selector. Live workspaces switch directly; saved
workspaces are recreated and their layout replayed. The selector also
offers creating a new workspace and deleting save slots.`,
	Args: cobra.NoArgs,
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	items, err := selectorItems(cmd.Context(), a)
	if err != nil {
		return err
	}

	id, err := ui.Pick("Workspaces", items)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		return err
	}

	action, err := lifecycle.ParseSelection(id)
	if err != nil {
		return err
	}

	switch act := action.(type) {
	case lifecycle.SwitchActive:
		if err := a.ctl.SwitchTo(cmd.Context(), act.Name); err != nil {
			return err
		}
		fmt.Printf("Switched to %q.\n", act.Name)
		return nil
	case lifecycle.SwitchSaved:
		if err := a.ctl.SwitchToSaved(cmd.Context(), act.Name); err != nil {
			return err
		}
		fmt.Printf("Switched to %q and restored its layout.\n", act.Name)
		return nil
	case lifecycle.Create:
		return createFlow(cmd.Context(), a, "")
	case lifecycle.Delete:
		return deleteLoop(cmd.Context(), a)
	default:
		return fmt.Errorf("unhandled selection %T", act)
	}
}

// selectorItems builds the picker entries: live workspaces first, then saved
// slots without a live counterpart, then the create and delete actions.
func selectorItems(ctx context.Context, a *app) ([]ui.Item, error) {
	live, err := a.host.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(live)

	saved, err := a.store.List()
	if err != nil {
		return nil, err
	}
	sort.Strings(saved)

	isLive := make(map[string]bool, len(live))
	items := make([]ui.Item, 0, len(live)+len(saved)+2)
	for _, name := range live {
		isLive[name] = true
		hint := "live"
		if a.store.Registered(name) {
			hint = "live, saved"
		}
		items = append(items, ui.Item{ID: lifecycle.ActiveID(name), Label: util.TruncateANSI(name, selectorLabelWidth), Hint: hint})
	}
	for _, name := range saved {
		if isLive[name] {
			continue
		}
		items = append(items, ui.Item{ID: lifecycle.SavedID(name), Label: util.TruncateANSI(name, selectorLabelWidth), Hint: "saved"})
	}
	items = append(items,
		ui.Item{ID: lifecycle.CreateID(), Label: "Create new workspace", Hint: ""},
		ui.Item{ID: lifecycle.DeleteID(), Label: "Delete a saved workspace", Hint: ""},
	)
	return items, nil
}

// createFlow prompts for a name (unless given) and creates the workspace.
// At capacity it forces the delete flow once, re-checks, and aborts if the
// store is still full.
func createFlow(ctx context.Context, a *app, name string) error {
	if name == "" {
		var err error
		name, err = ui.Prompt("New workspace name", "my-project")
		if err != nil {
			if errors.Is(err, ui.ErrCancelled) {
				return nil
			}
			return err
		}
	}

	err := a.ctl.CreateWorkspace(ctx, name)
	if errors.Is(err, errors.ErrAtCapacity) {
		fmt.Printf("Save limit reached (%d workspaces). Delete one to make room.\n",
			a.cfg.Store.MaxSavedWorkspaces)
		if err := deleteLoop(ctx, a); err != nil {
			return err
		}
		err = a.ctl.CreateWorkspace(ctx, name)
		if errors.Is(err, errors.ErrAtCapacity) {
			return fmt.Errorf("still at the save limit; workspace %q was not created", name)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Workspace %q created and saved.\n", name)
	return nil
}

// deleteLoop repeatedly offers saved slots for deletion until the user
// cancels or none remain.
func deleteLoop(ctx context.Context, a *app) error {
	for {
		saved, err := a.store.List()
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			fmt.Println("No saved workspaces.")
			return nil
		}
		sort.Strings(saved)

		items := make([]ui.Item, 0, len(saved))
		for _, name := range saved {
			items = append(items, ui.Item{ID: lifecycle.SavedID(name), Label: util.TruncateANSI(name, selectorLabelWidth), Hint: "saved"})
		}

		id, err := ui.Pick("Delete saved workspace (esc when done)", items)
		if err != nil {
			if errors.Is(err, ui.ErrCancelled) {
				return nil
			}
			return err
		}

		action, err := lifecycle.ParseSelection(id)
		if err != nil {
			return err
		}
		sel, ok := action.(lifecycle.SwitchSaved)
		if !ok {
			return fmt.Errorf("unexpected selection %T in delete flow", action)
		}
		if err := a.ctl.Delete(sel.Name); err != nil {
			return err
		}
		fmt.Printf("Deleted %q.\n", sel.Name)
	}
}
