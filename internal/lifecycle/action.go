package lifecycle

import (
	"fmt"
	"strings"
)

// Selector identifier prefixes. The picker tags every entry it offers so the
// chosen identifier can be parsed back into an Action exactly once, here.
const (
	idActive = "active:"
	idSaved  = "saved:"
	idCreate = "create"
	idDelete = "delete"
)

// Action is what the user picked in the workspace selector.
type Action interface {
	isAction()
}

// SwitchActive switches to a live workspace.
type SwitchActive struct{ Name string }

// SwitchSaved switches to a saved workspace, restoring its layout.
type SwitchSaved struct{ Name string }

// Create starts the new-workspace flow.
type Create struct{}

// Delete starts the delete-slot flow.
type Delete struct{}

func (SwitchActive) isAction() {}
func (SwitchSaved) isAction()  {}
func (Create) isAction()       {}
func (Delete) isAction()       {}

// ActiveID returns the selector identifier for a live workspace entry.
func ActiveID(name string) string { return idActive + name }

// SavedID returns the selector identifier for a saved workspace entry.
func SavedID(name string) string { return idSaved + name }

// CreateID returns the selector identifier for the create entry.
func CreateID() string { return idCreate }

// DeleteID returns the selector identifier for the delete entry.
func DeleteID() string { return idDelete }

// ParseSelection converts a selector identifier into an Action.
func ParseSelection(id string) (Action, error) {
	switch {
	case strings.HasPrefix(id, idActive):
		name := strings.TrimPrefix(id, idActive)
		if name == "" {
			return nil, fmt.Errorf("selection %q has no workspace name", id)
		}
		return SwitchActive{Name: name}, nil
	case strings.HasPrefix(id, idSaved):
		name := strings.TrimPrefix(id, idSaved)
		if name == "" {
			return nil, fmt.Errorf("selection %q has no workspace name", id)
		}
		return SwitchSaved{Name: name}, nil
	case id == idCreate:
		return Create{}, nil
	case id == idDelete:
		return Delete{}, nil
	default:
		return nil, fmt.Errorf("unknown selection %q", id)
	}
}
