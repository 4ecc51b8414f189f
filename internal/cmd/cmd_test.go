package cmd

import (
	"context"
	"testing"

	"github.com/wezkeep/wezkeep/internal/config"
	"github.com/wezkeep/wezkeep/internal/host"
	"github.com/wezkeep/wezkeep/internal/lifecycle"
	"github.com/wezkeep/wezkeep/internal/logging"
	"github.com/wezkeep/wezkeep/internal/replay"
	"github.com/wezkeep/wezkeep/internal/store"
)

// testApp wires an app against the mock host and a temp-dir store.
func testApp(t *testing.T) (*app, *host.Mock) {
	t.Helper()

	cfg := config.Default()
	cfg.Store.SaveDir = t.TempDir()
	m := host.NewMock()
	st := store.New(cfg.Store.SaveDir)
	eng := replay.New(m, nil)
	ctl := lifecycle.NewController(m, st, eng, nil, cfg, logging.NopLogger())

	return &app{cfg: cfg, logger: logging.NopLogger(), host: m, store: st, ctl: ctl}, m
}

func TestSelectorItems(t *testing.T) {
	a, m := testApp(t)
	ctx := context.Background()

	m.FreshWorkspace("dev", "/bin/zsh")
	m.FreshWorkspace("scratch", "/bin/zsh")

	// Register dev and a slot with no live workspace.
	if err := a.ctl.Save(ctx, "dev"); err != nil {
		t.Fatalf("Save(dev) error = %v", err)
	}
	m.FreshWorkspace("archived", "/bin/zsh")
	if err := a.ctl.Save(ctx, "archived"); err != nil {
		t.Fatalf("Save(archived) error = %v", err)
	}
	if err := m.CloseWorkspace(ctx, "archived"); err != nil {
		t.Fatal(err)
	}

	items, err := selectorItems(ctx, a)
	if err != nil {
		t.Fatalf("selectorItems() error = %v", err)
	}

	// 2 live + 1 saved-only + create + delete.
	if len(items) != 5 {
		t.Fatalf("selectorItems() returned %d items, want 5", len(items))
	}

	want := []struct{ id, hint string }{
		{lifecycle.ActiveID("dev"), "live, saved"},
		{lifecycle.ActiveID("scratch"), "live"},
		{lifecycle.SavedID("archived"), "saved"},
		{lifecycle.CreateID(), ""},
		{lifecycle.DeleteID(), ""},
	}
	for i, w := range want {
		if items[i].ID != w.id {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, w.id)
		}
		if items[i].Hint != w.hint {
			t.Errorf("items[%d].Hint = %q, want %q", i, items[i].Hint, w.hint)
		}
	}
}

func TestSelectorItemsTruncatesLongNames(t *testing.T) {
	a, m := testApp(t)
	ctx := context.Background()

	long := "a-workspace-name-well-past-the-picker-frame-width-limit-for-rows"
	m.FreshWorkspace(long, "/bin/zsh")

	items, err := selectorItems(ctx, a)
	if err != nil {
		t.Fatalf("selectorItems() error = %v", err)
	}
	if got := len([]rune(items[0].Label)); got > selectorLabelWidth {
		t.Errorf("label width = %d, want <= %d", got, selectorLabelWidth)
	}
	// The ID keeps the full name; only the label is shortened.
	if items[0].ID != lifecycle.ActiveID(long) {
		t.Errorf("items[0].ID = %q, want full name", items[0].ID)
	}
}

func TestKeyBindingActionsAcceptZeroArgs(t *testing.T) {
	// The wezterm.lua snippet invokes each command bare; a command that
	// demands an argument would turn the key press into a usage error.
	for _, action := range []string{"save", "restore", "switch"} {
		c, _, err := rootCmd.Find([]string{action})
		if err != nil || c == rootCmd {
			t.Fatalf("no %q subcommand registered: %v", action, err)
		}
		if err := c.Args(c, nil); err != nil {
			t.Errorf("%q rejects a bare invocation: %v", action, err)
		}
	}
}

func TestSplitChord(t *testing.T) {
	tests := []struct {
		chord    string
		wantMods string
		wantKey  string
	}{
		{"ALT|s", "ALT", "s"},
		{"CTRL|SHIFT|r", "CTRL|SHIFT", "r"},
		{"w", "", "w"},
	}

	for _, tt := range tests {
		mods, key := splitChord(tt.chord)
		if mods != tt.wantMods || key != tt.wantKey {
			t.Errorf("splitChord(%q) = (%q, %q), want (%q, %q)",
				tt.chord, mods, key, tt.wantMods, tt.wantKey)
		}
	}
}
