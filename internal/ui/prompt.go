package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("99")).
	MarginBottom(1)

type promptModel struct {
	title     string
	input     textinput.Model
	value     string
	submitted bool
	quitting  bool
}

func newPromptModel(title, placeholder string) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	return promptModel{title: title, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value != "" {
				m.value = value
				m.submitted = true
			}
			m.quitting = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.quitting {
		return ""
	}
	return promptTitleStyle.Render(m.title) + "\n" + m.input.View() + "\n"
}

// Prompt asks for a single line of text. An empty submission counts as a
// cancel, the same as escape.
func Prompt(title, placeholder string) (string, error) {
	p := tea.NewProgram(newPromptModel(title, placeholder))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(promptModel)
	if !m.submitted {
		return "", ErrCancelled
	}
	return m.value, nil
}
