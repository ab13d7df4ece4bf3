package projectform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/theme"
)

// ProjectCreatedMsg is dispatched when a new project is submitted.
type ProjectCreatedMsg struct {
	Input model.CreateProjectInput
}

// ProjectUpdatedMsg is dispatched when an edit is submitted.
type ProjectUpdatedMsg struct {
	Prior model.Project
	Patch model.ProjectPatch
}

// FormCancelMsg is dispatched when the user abandons the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	assigneeID  string
	completed   bool
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	prior    model.Project
	users    []model.UserProfile
	width    int
	height   int
}

// New creates a new project form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetUsers sets the assignee choices for the form selector.
func (m *Model) SetUsers(users []model.UserProfile) {
	m.users = users
}

// StartCreate initializes the form for creating a new project. The
// assignee defaults to the given user when non-empty.
func (m *Model) StartCreate(defaultAssignee string) tea.Cmd {
	m.editMode = false
	m.prior = model.Project{}
	m.fb.title = ""
	m.fb.description = ""
	m.fb.assigneeID = defaultAssignee
	m.fb.completed = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing project.
func (m *Model) StartEdit(p model.Project) tea.Cmd {
	m.editMode = true
	m.prior = p
	m.fb.title = p.Title
	if p.Description != nil {
		m.fb.description = *p.Description
	} else {
		m.fb.description = ""
	}
	m.fb.assigneeID = p.AssignedUserID
	m.fb.completed = p.IsCompleted
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What is the project?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		m.assigneeField(),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewSelect[bool]().
				Title("Status").
				Options(
					huh.NewOption("In progress", false),
					huh.NewOption("Completed", true),
				).
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.users))
	for _, u := range m.users {
		opts = append(opts, huh.NewOption(u.DisplayName(), u.ID))
	}
	return huh.NewSelect[string]().
		Title("Assigned to").
		Options(opts...).
		Value(&m.fb.assigneeID).
		Validate(validateRequired("Assignee"))
}

func (m Model) handleSubmit() tea.Cmd {
	if m.editMode {
		prior := m.prior
		patch := m.buildPatch()
		return func() tea.Msg { return ProjectUpdatedMsg{Prior: prior, Patch: patch} }
	}

	input := model.CreateProjectInput{
		AssignedUserID: m.fb.assigneeID,
		Title:          m.fb.title,
	}
	if strings.TrimSpace(m.fb.description) != "" {
		input.Description = model.NormalizeDescription(m.fb.description)
	}
	return func() tea.Msg { return ProjectCreatedMsg{Input: input} }
}

// buildPatch diffs the form values against the record being edited, so
// the patch carries only the fields that actually changed.
func (m Model) buildPatch() model.ProjectPatch {
	var patch model.ProjectPatch

	if title := strings.TrimSpace(m.fb.title); title != m.prior.Title {
		patch.Title = &title
	}
	if m.fb.assigneeID != m.prior.AssignedUserID {
		assignee := m.fb.assigneeID
		patch.AssignedUserID = &assignee
	}

	priorDesc := ""
	if m.prior.Description != nil {
		priorDesc = *m.prior.Description
	}
	if desc := strings.TrimSpace(m.fb.description); desc != priorDesc {
		d := m.fb.description
		patch.Description = &d
	}

	if m.fb.completed != m.prior.IsCompleted {
		completed := m.fb.completed
		patch.IsCompleted = &completed
	}

	return patch
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
