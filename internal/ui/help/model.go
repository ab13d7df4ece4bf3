// Package help renders the full-keymap overlay shown over the board.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Anshpatel2434/Demaze-task/internal/keys"
	"github.com/Anshpatel2434/Demaze-task/internal/theme"
)

// Model is the help overlay.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates the overlay with the full key listing expanded.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	return Model{keys: k, help: h, width: width, height: height}
}

func (m Model) Init() tea.Cmd { return nil }

// Update ignores everything; the app itself closes the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View centers the keymap panel in the available space.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Demaze keyboard shortcuts")

	m.help.Width = m.width - 10

	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		m.help.View(m.keys),
		"",
		theme.HelpStyle.Render("press ? to return to the board"),
	)

	panel := theme.BorderStyle.Padding(1, 3).Render(body)
	return lipgloss.Place(m.width, m.height-2,
		lipgloss.Center, lipgloss.Center, panel)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
