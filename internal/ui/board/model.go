// Package board renders the assignment dashboard: one column per user,
// project cards inside, with keyboard grab-and-drop between columns.
// The board owns no data; the app feeds it column snapshots and it
// emits intent messages back.
package board

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Anshpatel2434/Demaze-task/internal/keys"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/theme"
)

// Column is one user's lane on the board.
type Column struct {
	User     model.UserProfile
	Projects []model.Project
	HasMore  bool
	Fetching bool
}

// CardGrabbedMsg asks the app to begin a drag for the selected card.
type CardGrabbedMsg struct {
	ProjectID string
}

// CardDroppedMsg asks the app to settle a drop onto a target column.
type CardDroppedMsg struct {
	ProjectID       string
	TargetUserID    string
	CurrentAssignee string
}

// DragCancelledMsg asks the app to abandon the in-flight drag.
type DragCancelledMsg struct{}

// SearchMsg carries a committed email search query; empty clears it.
type SearchMsg struct {
	Query string
}

// NewProjectMsg asks the app to open the create form.
type NewProjectMsg struct{}

// EditProjectMsg asks the app to open the edit form for a card.
type EditProjectMsg struct {
	Project model.Project
}

// ToggleCompleteMsg asks the app to flip a card's completion state.
type ToggleCompleteMsg struct {
	Project model.Project
}

// CycleFilterMsg asks the app to advance the completion filter.
type CycleFilterMsg struct{}

// Model is the board view component.
type Model struct {
	columns      []Column
	usersHasMore bool

	focusCol int
	cursor   map[string]int

	grabbedID string
	dragCol   int
	locked    bool

	searchMode  bool
	searchInput textinput.Model
	search      string

	filterLabel string

	keys   *keys.KeyMap
	width  int
	height int
}

// New creates an empty board.
func New(k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search users by email..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		cursor:      make(map[string]int),
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetColumns replaces the board data with a fresh snapshot. Cursor and
// focus positions survive across snapshots where still valid.
func (m *Model) SetColumns(columns []Column, usersHasMore bool) {
	m.columns = columns
	m.usersHasMore = usersHasMore

	if m.focusCol >= len(columns) {
		m.focusCol = max(0, len(columns)-1)
	}
	if m.dragCol >= len(columns) {
		m.dragCol = max(0, len(columns)-1)
	}
	for _, col := range columns {
		if m.cursor[col.User.ID] >= len(col.Projects) {
			m.cursor[col.User.ID] = max(0, len(col.Projects)-1)
		}
	}
}

// SetGrabbed mirrors the drag machine: "" means no card in motion.
func (m *Model) SetGrabbed(projectID string) {
	m.grabbedID = projectID
	if projectID != "" {
		m.dragCol = m.focusCol
	}
}

// SetLocked mirrors the settling window during which drops are refused.
func (m *Model) SetLocked(locked bool) {
	m.locked = locked
}

// SetFilterLabel sets the completion-filter caption shown above the
// columns; "" hides it.
func (m *Model) SetFilterLabel(label string) {
	m.filterLabel = label
}

// Search returns the committed search query.
func (m Model) Search() string { return m.search }

// Searching reports whether the search bar currently owns keystrokes.
func (m Model) Searching() bool { return m.searchMode }

// UsersSentinelVisible reports whether the cursor sits on the last
// loaded column, i.e. the next page of users should be considered.
func (m Model) UsersSentinelVisible() bool {
	return len(m.columns) > 0 && m.focusCol == len(m.columns)-1
}

// ProjectSentinelVisible reports whether the focused column's cursor
// sits on its last loaded card.
func (m Model) ProjectSentinelVisible(userID string) bool {
	col, ok := m.column(userID)
	if !ok || len(col.Projects) == 0 {
		return false
	}
	if m.focusCol >= len(m.columns) || m.columns[m.focusCol].User.ID != userID {
		return false
	}
	return m.cursor[userID] == len(col.Projects)-1
}

// FocusedUserID returns the user id of the focused column, or "".
func (m Model) FocusedUserID() string {
	if m.focusCol >= len(m.columns) {
		return ""
	}
	return m.columns[m.focusCol].User.ID
}

// SelectedProject returns the card under the cursor.
func (m Model) SelectedProject() (model.Project, bool) {
	if m.focusCol >= len(m.columns) {
		return model.Project{}, false
	}
	col := m.columns[m.focusCol]
	idx := m.cursor[col.User.ID]
	if idx >= len(col.Projects) {
		return model.Project{}, false
	}
	return col.Projects[idx], true
}

func (m Model) column(userID string) (Column, bool) {
	for _, col := range m.columns {
		if col.User.ID == userID {
			return col, true
		}
	}
	return Column{}, false
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searchMode {
		return m.handleSearchKeys(keyMsg)
	}
	if m.grabbedID != "" {
		return m.handleDragKeys(keyMsg)
	}
	return m.handleNormalKeys(keyMsg)
}

// handleSearchKeys processes key input while the search bar has focus.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.search = m.searchInput.Value()
		query := m.search
		return m, func() tea.Msg { return SearchMsg{Query: query} }

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.search = ""
		return m, func() tea.Msg { return SearchMsg{} }
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleDragKeys processes key input while a card is grabbed: left and
// right move the drop target, drop commits, escape abandons.
func (m Model) handleDragKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.dragCol > 0 {
			m.dragCol--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.dragCol < len(m.columns)-1 {
			m.dragCol++
		}
		return m, nil

	case key.Matches(msg, m.keys.Drop):
		if m.locked || m.dragCol >= len(m.columns) {
			return m, nil
		}
		target := m.columns[m.dragCol].User.ID
		grabbed := m.grabbedID
		assignee := m.grabbedAssignee()
		return m, func() tea.Msg {
			return CardDroppedMsg{
				ProjectID:       grabbed,
				TargetUserID:    target,
				CurrentAssignee: assignee,
			}
		}

	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DragCancelledMsg{} }
	}

	return m, nil
}

// grabbedAssignee finds the grabbed card's current assignee from the
// column snapshot.
func (m Model) grabbedAssignee() string {
	for _, col := range m.columns {
		for _, p := range col.Projects {
			if p.ID == m.grabbedID {
				return p.AssignedUserID
			}
		}
	}
	return ""
}

// handleNormalKeys processes key input with no card in motion.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.focusCol > 0 {
			m.focusCol--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.focusCol < len(m.columns)-1 {
			m.focusCol++
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if id := m.FocusedUserID(); id != "" {
			col := m.columns[m.focusCol]
			if m.cursor[id] < len(col.Projects)-1 {
				m.cursor[id]++
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if id := m.FocusedUserID(); id != "" && m.cursor[id] > 0 {
			m.cursor[id]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Grab):
		if m.locked {
			return m, nil
		}
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return CardGrabbedMsg{ProjectID: p.ID} }

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewProjectMsg{} }

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditProjectMsg{Project: p} }

	case key.Matches(msg, m.keys.Complete):
		p, ok := m.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ToggleCompleteMsg{Project: p} }

	case key.Matches(msg, m.keys.CycleFilter):
		return m, func() tea.Msg { return CycleFilterMsg{} }
	}

	return m, nil
}

// View renders the board.
func (m Model) View() string {
	var rows []string

	if m.searchMode {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	} else if m.search != "" {
		rows = append(rows, theme.HelpStyle.Render("search: "+m.search))
	}
	if m.filterLabel != "" && !m.searchMode {
		rows = append(rows, theme.HelpStyle.Render("filter: "+m.filterLabel))
	}

	if len(m.columns) == 0 {
		rows = append(rows, m.renderEmptyState())
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	cols := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		cols = append(cols, m.renderColumn(i, col))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderColumn draws one user lane.
func (m Model) renderColumn(index int, col Column) string {
	colWidth := m.columnWidth()
	innerWidth := colWidth - 4

	lines := []string{renderColumnHeader(col.User, len(col.Projects), col.HasMore)}

	if len(col.Projects) == 0 {
		lines = append(lines, theme.HelpStyle.Render("no projects"))
	}
	for i, p := range col.Projects {
		selected := index == m.focusCol && i == m.cursor[col.User.ID]
		grabbed := p.ID == m.grabbedID
		settling := m.locked && grabbed
		lines = append(lines, renderCard(p, innerWidth, selected, grabbed, settling))
	}

	switch {
	case col.Fetching:
		lines = append(lines, theme.HelpStyle.Render("loading…"))
	case col.HasMore:
		lines = append(lines, theme.HelpStyle.Render("↓ more"))
	}

	style := theme.ColumnStyle
	if m.grabbedID != "" && index == m.dragCol {
		style = theme.DropTargetColumnStyle
	} else if index == m.focusCol {
		style = theme.FocusedColumnStyle
	}

	return style.Width(colWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderEmptyState shows guidance text when no users are loaded.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.search != "" {
		return style.Render("No users match the search.\nPress / to adjust it.")
	}
	return style.Render("No users yet.")
}

// columnWidth splits the available width between the visible columns.
func (m Model) columnWidth() int {
	n := len(m.columns)
	if n == 0 {
		n = 1
	}
	w := m.width/n - 2
	if w < 20 {
		w = 20
	}
	return w
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}
