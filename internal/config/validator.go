package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "autosave.interval_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// keyChordRegex validates key chord descriptions of the form MOD|key or
// MOD|MOD|key, matching what the host config generator emits.
var keyChordRegex = regexp.MustCompile(`^([A-Z]+\|)+[A-Za-z0-9]+$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateAutosave()...)
	errors = append(errors, c.validateRestore()...)
	errors = append(errors, c.validateKeys()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateStore validates the StoreConfig
func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if c.Store.MaxSavedWorkspaces < 1 {
		errors = append(errors, ValidationError{
			Field:   "store.max_saved_workspaces",
			Value:   c.Store.MaxSavedWorkspaces,
			Message: "must be at least 1",
		})
	}

	const maxSlots = 1000
	if c.Store.MaxSavedWorkspaces > maxSlots {
		errors = append(errors, ValidationError{
			Field:   "store.max_saved_workspaces",
			Value:   c.Store.MaxSavedWorkspaces,
			Message: fmt.Sprintf("exceeds maximum of %d", maxSlots),
		})
	}

	if strings.ContainsRune(c.Store.SaveDir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "store.save_dir",
			Value:   c.Store.SaveDir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

// validateAutosave validates the AutosaveConfig
func (c *Config) validateAutosave() []ValidationError {
	var errors []ValidationError

	// 0 disables autosave; negative is invalid
	if c.Autosave.IntervalSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "autosave.interval_seconds",
			Value:   c.Autosave.IntervalSeconds,
			Message: "must be non-negative (0 disables autosave)",
		})
	}

	const minInterval = 5
	if c.Autosave.IntervalSeconds > 0 && c.Autosave.IntervalSeconds < minInterval {
		errors = append(errors, ValidationError{
			Field:   "autosave.interval_seconds",
			Value:   c.Autosave.IntervalSeconds,
			Message: fmt.Sprintf("must be at least %d seconds when enabled", minInterval),
		})
	}

	if c.Autosave.DebounceSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "autosave.debounce_seconds",
			Value:   c.Autosave.DebounceSeconds,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateRestore validates the RestoreConfig
func (c *Config) validateRestore() []ValidationError {
	var errors []ValidationError

	if c.Restore.SettleDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "restore.settle_delay_ms",
			Value:   c.Restore.SettleDelayMs,
			Message: "must be non-negative",
		})
	}

	const maxSettleMs = 60_000
	if c.Restore.SettleDelayMs > maxSettleMs {
		errors = append(errors, ValidationError{
			Field:   "restore.settle_delay_ms",
			Value:   c.Restore.SettleDelayMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxSettleMs),
		})
	}

	for name, rule := range c.Restore.ProcessRules {
		if strings.TrimSpace(rule.Match) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("restore.process_rules.%s.match", name),
				Value:   rule.Match,
				Message: "match substring cannot be empty",
			})
		}
		if strings.TrimSpace(rule.Command) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("restore.process_rules.%s.command", name),
				Value:   rule.Command,
				Message: "command template cannot be empty",
			})
		}
	}

	return errors
}

// validateKeys validates the KeysConfig
func (c *Config) validateKeys() []ValidationError {
	var errors []ValidationError

	if !c.Keys.Enabled {
		return errors
	}

	chords := map[string]string{
		"keys.save":    c.Keys.Save,
		"keys.restore": c.Keys.Restore,
		"keys.switch":  c.Keys.Switch,
	}
	for field, chord := range chords {
		if chord == "" {
			continue
		}
		if !keyChordRegex.MatchString(chord) {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   chord,
				Message: "must be in MOD|key form, e.g. ALT|s or CTRL|SHIFT|r",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
