// Package layout defines the serializable snapshot model for WezTerm
// workspaces: tabs containing ordered panes with split geometry. These types
// are the wire format for save slots and the input to the replay engine.
//
// Pane order is significant. Panes are recorded in the host's enumeration
// order (creation/split order, not spatial order), and the replay engine
// relies on that order to infer split directions. Nothing in this package
// may re-sort panes.
package layout

import (
	"fmt"
)

// SplitDirection is the direction a pane is split off from its predecessor.
type SplitDirection string

const (
	// SplitRight places the new pane to the right of the previous one.
	SplitRight SplitDirection = "Right"
	// SplitBottom places the new pane below the previous one.
	SplitBottom SplitDirection = "Bottom"
)

// PaneSnapshot captures one pane's state at snapshot time. Geometry fields
// are in the host's layout-relative coordinates (cells, not pixels) and are
// used only to infer split direction on replay.
type PaneSnapshot struct {
	Index    int    `json:"index"`
	IsActive bool   `json:"is_active"`
	IsZoomed bool   `json:"is_zoomed"`
	Left     int    `json:"left"`
	Top      int    `json:"top"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Cwd      string `json:"cwd"`
	// Tty is the foreground process identifier reported by the host,
	// typically an executable path. It drives process-restore rule matching.
	Tty string `json:"tty"`
}

// TabSnapshot is an ordered set of panes sharing one window region.
// TabID is informational only; it is never reused on restore.
type TabSnapshot struct {
	TabID string         `json:"tab_id"`
	Panes []PaneSnapshot `json:"panes"`
}

// WorkspaceSnapshot is one workspace's complete layout. Name is the unique
// store key. Names are used verbatim as filename components; callers are
// responsible for keeping path separators out of them.
type WorkspaceSnapshot struct {
	Name string        `json:"name"`
	Tabs []TabSnapshot `json:"tabs"`
}

// Validate checks the structural invariants of a snapshot: at least one tab,
// at least one pane per tab, and unique pane indices within each tab.
// The store treats a validation failure at load time as a corrupt slot.
func (w *WorkspaceSnapshot) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("snapshot has no workspace name")
	}
	if len(w.Tabs) == 0 {
		return fmt.Errorf("snapshot %q has no tabs", w.Name)
	}
	for ti, tab := range w.Tabs {
		if len(tab.Panes) == 0 {
			return fmt.Errorf("snapshot %q tab %d has no panes", w.Name, ti)
		}
		seen := make(map[int]bool, len(tab.Panes))
		for _, pane := range tab.Panes {
			if seen[pane.Index] {
				return fmt.Errorf("snapshot %q tab %d has duplicate pane index %d", w.Name, ti, pane.Index)
			}
			seen[pane.Index] = true
		}
	}
	return nil
}

// PaneCount returns the total number of panes across all tabs.
func (w *WorkspaceSnapshot) PaneCount() int {
	n := 0
	for _, tab := range w.Tabs {
		n += len(tab.Panes)
	}
	return n
}

// SplitDirections infers the split direction for each pane after the first,
// in recorded order: a pane whose left edge matches its predecessor's is a
// downward split, anything else is a rightward split. The result has one
// entry per pane from index 1 onward.
//
// This reconstructs binary right-then-down split chains only. Arbitrary
// rectangular packings collapse to an approximation of themselves.
func SplitDirections(panes []PaneSnapshot) []SplitDirection {
	if len(panes) < 2 {
		return nil
	}
	dirs := make([]SplitDirection, 0, len(panes)-1)
	for j := 1; j < len(panes); j++ {
		if panes[j].Left == panes[j-1].Left {
			dirs = append(dirs, SplitBottom)
		} else {
			dirs = append(dirs, SplitRight)
		}
	}
	return dirs
}
