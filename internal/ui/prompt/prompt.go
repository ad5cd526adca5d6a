// Package prompt provides the popup that asks for an archive identifier.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui"
	"github.com/llehouerou/taplist/internal/ui/styles"
)

const title = "Open playlist"

// SubmitMsg is sent when the user confirms a non-empty identifier.
type SubmitMsg struct {
	Identifier string
}

// CancelMsg is sent when the user dismisses the prompt.
type CancelMsg struct{}

// Model is the identifier prompt.
type Model struct {
	input  textinput.Model
	active bool
}

// New creates an inactive prompt.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "archive.org identifier"
	ti.CharLimit = 256
	ti.Prompt = "> "
	return Model{input: ti}
}

// Open activates the prompt with initial text and focuses the input.
func (m *Model) Open(initial string) tea.Cmd {
	m.active = true
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Width = max(ui.PromptWidth-8, 10)
	return m.input.Focus()
}

// Close deactivates the prompt.
func (m *Model) Close() {
	m.active = false
	m.input.Blur()
}

// Active returns whether the prompt is shown.
func (m Model) Active() bool {
	return m.active
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// Update handles keys while the prompt is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.Close()
			return m, func() tea.Msg { return CancelMsg{} }
		case tea.KeyEnter:
			id := strings.TrimSpace(m.input.Value())
			if id == "" {
				return m, nil
			}
			m.Close()
			return m, func() tea.Msg { return SubmitMsg{Identifier: id} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the popup box, or "" when inactive.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	content := titleStyle().Render(title) + "\n\n" +
		m.input.View() + "\n\n" +
		hintStyle().Render("Enter: load, Esc: cancel")

	return boxStyle().Width(ui.PromptWidth).Render(content)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

func hintStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func boxStyle() lipgloss.Style {
	return styles.PanelStyle(true).Padding(0, 1)
}
