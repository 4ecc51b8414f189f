// Package ui provides the interactive surfaces the lifecycle flows need: a
// fuzzy-filterable picker and a one-line text prompt. Both are thin
// bubbletea programs; all decisions about what the chosen entry means happen
// in the lifecycle package.
package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user dismisses a picker or prompt.
var ErrCancelled = errors.New("cancelled")

// Item is one selectable picker entry. ID is what the caller gets back;
// Label and Hint are what the user sees.
type Item struct {
	ID    string
	Label string
	Hint  string
}

// Title implements list.DefaultItem.
func (i Item) Title() string { return i.Label }

// Description implements list.DefaultItem.
func (i Item) Description() string { return i.Hint }

// FilterValue implements list.Item; filtering matches on the label.
func (i Item) FilterValue() string { return i.Label }

var pickerTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("99"))

type pickerModel struct {
	list     list.Model
	choice   string
	chosen   bool
	quitting bool
}

func newPickerModel(title string, items []Item) pickerModel {
	entries := make([]list.Item, len(items))
	for i, item := range items {
		entries[i] = item
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(entries, delegate, 60, 20)
	l.Title = title
	l.Styles.Title = pickerTitleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Keys are handled here only when the filter input is not
		// capturing them.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				m.choice = item.ID
				m.chosen = true
			}
			m.quitting = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Pick presents a fuzzy-filterable selection and returns the chosen entry's
// ID, or ErrCancelled if the user backed out.
func Pick(title string, items []Item) (string, error) {
	p := tea.NewProgram(newPickerModel(title, items))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(pickerModel)
	if !m.chosen {
		return "", ErrCancelled
	}
	return m.choice, nil
}
