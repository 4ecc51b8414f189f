package layout

import (
	"encoding/json"
	"testing"
)

func validSnapshot() *WorkspaceSnapshot {
	return &WorkspaceSnapshot{
		Name: "work",
		Tabs: []TabSnapshot{
			{
				TabID: "7",
				Panes: []PaneSnapshot{
					{Index: 0, IsActive: true, Left: 0, Top: 0, Width: 80, Height: 24, Cwd: "file://host/home/user", Tty: "/usr/bin/zsh"},
					{Index: 1, Left: 0, Top: 25, Width: 80, Height: 24, Cwd: "file://host/home/user/src", Tty: "/usr/bin/nvim"},
				},
			},
		},
	}
}

func TestWorkspaceSnapshot_Validate(t *testing.T) {
	if err := validSnapshot().Validate(); err != nil {
		t.Fatalf("Validate failed on valid snapshot: %v", err)
	}
}

func TestWorkspaceSnapshot_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorkspaceSnapshot)
	}{
		{"empty name", func(w *WorkspaceSnapshot) { w.Name = "" }},
		{"no tabs", func(w *WorkspaceSnapshot) { w.Tabs = nil }},
		{"empty tab", func(w *WorkspaceSnapshot) { w.Tabs[0].Panes = nil }},
		{"duplicate pane index", func(w *WorkspaceSnapshot) {
			w.Tabs[0].Panes[1].Index = w.Tabs[0].Panes[0].Index
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(snap)
			if err := snap.Validate(); err == nil {
				t.Errorf("Validate accepted invalid snapshot (%s)", tt.name)
			}
		})
	}
}

func TestSplitDirections(t *testing.T) {
	tests := []struct {
		name  string
		lefts []int
		want  []SplitDirection
	}{
		{"single pane", []int{0}, nil},
		{"stacked", []int{0, 0}, []SplitDirection{SplitBottom}},
		{"side by side", []int{0, 40}, []SplitDirection{SplitRight}},
		{"down then right", []int{0, 0, 50}, []SplitDirection{SplitBottom, SplitRight}},
		{"right then down", []int{0, 40, 40}, []SplitDirection{SplitRight, SplitBottom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panes := make([]PaneSnapshot, len(tt.lefts))
			for i, l := range tt.lefts {
				panes[i] = PaneSnapshot{Index: i, Left: l}
			}
			got := SplitDirections(panes)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitDirections returned %d directions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("direction[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWorkspaceSnapshot_JSONRoundTrip(t *testing.T) {
	snap := validSnapshot()

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded WorkspaceSnapshot
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if loaded.Name != snap.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, snap.Name)
	}
	if len(loaded.Tabs) != 1 || len(loaded.Tabs[0].Panes) != 2 {
		t.Fatalf("round trip lost structure: %+v", loaded)
	}
	if loaded.Tabs[0].TabID != "7" {
		t.Errorf("TabID = %q, want %q", loaded.Tabs[0].TabID, "7")
	}
	for i, pane := range loaded.Tabs[0].Panes {
		if pane != snap.Tabs[0].Panes[i] {
			t.Errorf("pane %d = %+v, want %+v", i, pane, snap.Tabs[0].Panes[i])
		}
	}
}

func TestWorkspaceSnapshot_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(validSnapshot())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	tabs, ok := raw["tabs"].([]any)
	if !ok || len(tabs) == 0 {
		t.Fatal("missing tabs field")
	}
	tab := tabs[0].(map[string]any)
	if _, ok := tab["tab_id"]; !ok {
		t.Error("tab missing tab_id field")
	}
	panes := tab["panes"].([]any)
	pane := panes[0].(map[string]any)
	for _, field := range []string{"index", "is_active", "is_zoomed", "left", "top", "width", "height", "cwd", "tty"} {
		if _, ok := pane[field]; !ok {
			t.Errorf("pane missing %q field", field)
		}
	}
}
