package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wezkeep/wezkeep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect wezkeep configuration",
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print wezterm.lua key bindings for wezkeep",
	Long: `Wezkeep cannot register key bindings itself; WezTerm owns the keymap.
This prints a snippet for your wezterm.lua wiring the configured chords to
the wezkeep commands.`,
	RunE: runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and save directory paths",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !cfg.Keys.Enabled {
		fmt.Println("-- key bindings are disabled (keys.enabled = false)")
		return nil
	}

	bindings := []struct {
		chord  string
		action string
	}{
		{cfg.Keys.Save, "save"},
		{cfg.Keys.Restore, "restore"},
		{cfg.Keys.Switch, "switch"},
	}

	fmt.Println("-- add to your wezterm.lua keys table:")
	for _, b := range bindings {
		if b.chord == "" {
			continue
		}
		mods, key := splitChord(b.chord)
		fmt.Printf("{ key = %q, mods = %q, action = wezterm.action.SpawnCommandInNewWindow({ args = { 'wezkeep', %q } }) },\n",
			key, mods, b.action)
	}
	return nil
}

// splitChord separates "CTRL|SHIFT|s" into mods "CTRL|SHIFT" and key "s".
func splitChord(chord string) (mods, key string) {
	idx := strings.LastIndex(chord, "|")
	if idx < 0 {
		return "", chord
	}
	return chord[:idx], chord[idx+1:]
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Config file: %s\n", config.ConfigFile())
	fmt.Printf("Save dir:    %s\n", cfg.Store.ResolveSaveDir())
	return nil
}
