package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("default config should validate cleanly, got: %v", ValidationErrors(errs))
	}
}

func TestConfig_Validate_Store(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"zero max slots",
			func(c *Config) { c.Store.MaxSavedWorkspaces = 0 },
			"store.max_saved_workspaces",
		},
		{
			"negative max slots",
			func(c *Config) { c.Store.MaxSavedWorkspaces = -5 },
			"store.max_saved_workspaces",
		},
		{
			"excessive max slots",
			func(c *Config) { c.Store.MaxSavedWorkspaces = 10000 },
			"store.max_saved_workspaces",
		},
		{
			"null byte in save dir",
			func(c *Config) { c.Store.SaveDir = "bad\x00dir" },
			"store.save_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}
			if errs[0].Field != tt.wantErr {
				t.Errorf("error field = %q, want %q", errs[0].Field, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Autosave(t *testing.T) {
	t.Run("zero disables autosave", func(t *testing.T) {
		cfg := Default()
		cfg.Autosave.IntervalSeconds = 0
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("interval 0 should be valid (disabled), got: %v", ValidationErrors(errs))
		}
	})

	t.Run("negative interval", func(t *testing.T) {
		cfg := Default()
		cfg.Autosave.IntervalSeconds = -1
		if errs := cfg.Validate(); len(errs) == 0 {
			t.Error("negative interval should fail validation")
		}
	})

	t.Run("sub-minimum interval", func(t *testing.T) {
		cfg := Default()
		cfg.Autosave.IntervalSeconds = 2
		if errs := cfg.Validate(); len(errs) == 0 {
			t.Error("a 2 second interval should fail validation")
		}
	})
}

func TestConfig_Validate_ProcessRules(t *testing.T) {
	cfg := Default()
	cfg.Restore.ProcessRules = map[string]ProcessRule{
		"good": {Match: "nvim", Command: "nvim ."},
		"bad":  {Match: "", Command: "x"},
	}

	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), ValidationErrors(errs))
	}
	if errs[0].Field != "restore.process_rules.bad.match" {
		t.Errorf("error field = %q, want the empty match", errs[0].Field)
	}
}

func TestConfig_Validate_Keys(t *testing.T) {
	t.Run("valid chords", func(t *testing.T) {
		cfg := Default()
		cfg.Keys.Save = "CTRL|SHIFT|s"
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("CTRL|SHIFT|s should be valid, got: %v", ValidationErrors(errs))
		}
	})

	t.Run("malformed chord", func(t *testing.T) {
		cfg := Default()
		cfg.Keys.Restore = "alt+r"
		if errs := cfg.Validate(); len(errs) == 0 {
			t.Error("alt+r should fail chord validation")
		}
	})

	t.Run("disabled keys skip validation", func(t *testing.T) {
		cfg := Default()
		cfg.Keys.Enabled = false
		cfg.Keys.Restore = "not a chord"
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("disabled keys should not be validated, got: %v", ValidationErrors(errs))
		}
	})
}

func TestConfig_Validate_Logging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("invalid log level should fail validation")
	}
	if errs[0].Field != "logging.level" {
		t.Errorf("error field = %q, want logging.level", errs[0].Field)
	}
}
