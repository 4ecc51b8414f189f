package config

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete wezkeep configuration
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Restore  RestoreConfig  `mapstructure:"restore"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Keys     KeysConfig     `mapstructure:"keys"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StoreConfig controls where snapshots are persisted and how many may exist
type StoreConfig struct {
	// SaveDir is the directory holding snapshot slot files.
	// Supports ~ for home directory expansion. Empty means the default
	// under the user config directory.
	SaveDir string `mapstructure:"save_dir"`
	// MaxSavedWorkspaces caps the number of save slots. Creating a new
	// workspace beyond the cap fails; nothing is evicted automatically.
	MaxSavedWorkspaces int `mapstructure:"max_saved_workspaces"`
}

// AutosaveConfig controls the periodic background save
type AutosaveConfig struct {
	// IntervalSeconds is the autosave tick period. 0 disables autosave.
	IntervalSeconds int `mapstructure:"interval_seconds"`
	// DebounceSeconds is the minimum gap between two persisted autosaves
	// of the same workspace.
	DebounceSeconds int `mapstructure:"debounce_seconds"`
}

// RestoreConfig controls layout replay behavior
type RestoreConfig struct {
	// SettleDelayMs is how long autosave stays suspended after a restore
	// completes, letting the host finish laying out panes before the next
	// snapshot is taken.
	SettleDelayMs int `mapstructure:"settle_delay_ms"`
	// ProcessRules maps a rule name to a foreground-process matcher and the
	// command used to restart it in the restored pane. Templates may use
	// {tty} and {cwd}.
	ProcessRules map[string]ProcessRule `mapstructure:"process_rules"`
}

// ProcessRule is one foreground-process restoration rule
type ProcessRule struct {
	// Match is the substring looked for in the recorded foreground process.
	Match string `mapstructure:"match"`
	// Command is the template typed into the restored pane on a match.
	Command string `mapstructure:"command"`
}

// CleanupConfig controls when an abandoned workspace may be closed
type CleanupConfig struct {
	// CloseEmptyOnSwitch closes the workspace being left if it is a lone
	// idle shell and has no save slot.
	CloseEmptyOnSwitch bool `mapstructure:"close_empty_on_switch"`
	// IdleShellSuffixes are the foreground-process basename suffixes that
	// count as an idle shell. Empty means the built-in list.
	IdleShellSuffixes []string `mapstructure:"idle_shell_suffixes"`
}

// KeysConfig controls the emitted keybinding hints
type KeysConfig struct {
	// Enabled controls whether key bindings are emitted at all.
	Enabled bool `mapstructure:"enabled"`
	// Save, Restore, and Switch are key chord descriptions in
	// modifier|key form, for display and for the generated host config.
	Save    string `mapstructure:"save"`
	Restore string `mapstructure:"restore"`
	Switch  string `mapstructure:"switch"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path. Empty means stderr.
	File string `mapstructure:"file"`
}

// Interval returns the autosave tick period as a time.Duration (0 means disabled)
func (c *AutosaveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Debounce returns the autosave debounce window as a time.Duration
func (c *AutosaveConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceSeconds) * time.Second
}

// SettleDelay returns the post-restore settle window as a time.Duration
func (c *RestoreConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// SortedRules flattens the process-rule map into a deterministic slice,
// ordered by rule name. Map iteration order would make rule precedence
// change between runs.
func (c *RestoreConfig) SortedRules() []NamedRule {
	names := make([]string, 0, len(c.ProcessRules))
	for name := range c.ProcessRules {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]NamedRule, 0, len(names))
	for _, name := range names {
		rule := c.ProcessRules[name]
		rules = append(rules, NamedRule{Name: name, Match: rule.Match, Command: rule.Command})
	}
	return rules
}

// NamedRule is a ProcessRule paired with its configuration key.
type NamedRule struct {
	Name    string
	Match   string
	Command string
}

// ResolveSaveDir returns the resolved snapshot directory path.
// If SaveDir is empty, it returns the default under the config directory.
// If SaveDir starts with ~, it expands to the user's home directory.
func (s *StoreConfig) ResolveSaveDir() string {
	if s.SaveDir == "" {
		return filepath.Join(ConfigDir(), "saves")
	}

	path := s.SaveDir
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			SaveDir:            "", // Empty means use default: <config dir>/saves
			MaxSavedWorkspaces: 20,
		},
		Autosave: AutosaveConfig{
			IntervalSeconds: 300, // 5 minutes
			DebounceSeconds: 30,
		},
		Restore: RestoreConfig{
			SettleDelayMs: 2000,
			ProcessRules:  map[string]ProcessRule{},
		},
		Cleanup: CleanupConfig{
			CloseEmptyOnSwitch: false,
			IdleShellSuffixes:  []string{},
		},
		Keys: KeysConfig{
			Enabled: true,
			Save:    "ALT|s",
			Restore: "ALT|r",
			Switch:  "ALT|w",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			File:    "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Store defaults
	viper.SetDefault("store.save_dir", defaults.Store.SaveDir)
	viper.SetDefault("store.max_saved_workspaces", defaults.Store.MaxSavedWorkspaces)

	// Autosave defaults
	viper.SetDefault("autosave.interval_seconds", defaults.Autosave.IntervalSeconds)
	viper.SetDefault("autosave.debounce_seconds", defaults.Autosave.DebounceSeconds)

	// Restore defaults
	viper.SetDefault("restore.settle_delay_ms", defaults.Restore.SettleDelayMs)
	viper.SetDefault("restore.process_rules", defaults.Restore.ProcessRules)

	// Cleanup defaults
	viper.SetDefault("cleanup.close_empty_on_switch", defaults.Cleanup.CloseEmptyOnSwitch)
	viper.SetDefault("cleanup.idle_shell_suffixes", defaults.Cleanup.IdleShellSuffixes)

	// Keys defaults
	viper.SetDefault("keys.enabled", defaults.Keys.Enabled)
	viper.SetDefault("keys.save", defaults.Keys.Save)
	viper.SetDefault("keys.restore", defaults.Keys.Restore)
	viper.SetDefault("keys.switch", defaults.Keys.Switch)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wezkeep")
	}
	// Fall back to ~/.config/wezkeep
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wezkeep"
	}
	return filepath.Join(home, ".config", "wezkeep")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
