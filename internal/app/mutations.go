package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Anshpatel2434/Demaze-task/internal/dnd"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/mutate"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/board"
)

// createSettledMsg carries the outcome of an optimistic create.
type createSettledMsg struct {
	ticket  *mutate.CreateTicket
	created model.Project
	err     error
}

// updateSettledMsg carries the outcome of an optimistic update.
type updateSettledMsg struct {
	ticket   *mutate.UpdateTicket
	updated  model.Project
	err      error
	fromDrag bool
}

// handleGrab begins a drag for the selected card.
func (m Model) handleGrab(msg board.CardGrabbedMsg) (tea.Model, tea.Cmd) {
	if m.current == nil || !m.current.IsAdmin() {
		m.notice = "Only admins can reassign projects."
		return m, nil
	}

	if err := m.drag.Begin(msg.ProjectID); err != nil {
		m.notice = rejectionNotice(err)
		return m, nil
	}
	m.notice = ""
	m.boardView.SetGrabbed(msg.ProjectID)
	return m, nil
}

// handleDrop validates the drop with the drag machine and, when
// accepted, stages and executes the reassignment.
func (m Model) handleDrop(msg board.CardDroppedMsg) (tea.Model, tea.Cmd) {
	err := m.drag.Accept(msg.ProjectID, msg.TargetUserID, msg.CurrentAssignee)
	if err != nil {
		m.notice = rejectionNotice(err)
		if m.drag.Phase() == dnd.Idle {
			// The machine abandoned the grab (no-op drop).
			m.boardView.SetGrabbed("")
		}
		return m, nil
	}
	m.boardView.SetLocked(true)

	prior, ok := m.findProject(msg.ProjectID)
	if !ok {
		m.settleDrag()
		m.notice = "Card is no longer on the board."
		return m, nil
	}

	target := msg.TargetUserID
	patch := model.ProjectPatch{AssignedUserID: &target}
	return m.stageAndExecuteUpdate(prior, patch, true)
}

// handleToggleComplete flips a card's completion state optimistically.
func (m Model) handleToggleComplete(msg board.ToggleCompleteMsg) (tea.Model, tea.Cmd) {
	if !m.mayEdit(msg.Project) {
		m.notice = "You can only update your own projects."
		return m, nil
	}

	completed := !msg.Project.IsCompleted
	patch := model.ProjectPatch{IsCompleted: &completed}
	return m.handleUpdate(msg.Project, patch, false)
}

// openCreateForm routes to the project form in create mode.
func (m Model) openCreateForm() (tea.Model, tea.Cmd) {
	if m.current == nil || !m.current.IsAdmin() {
		m.notice = "Only admins can create projects."
		return m, nil
	}

	users := m.loadedUsers()
	if len(users) == 0 {
		m.notice = "No users loaded to assign to."
		return m, nil
	}

	m.formView.SetUsers(users)
	m.previousView = m.currentView
	m.currentView = ViewProjectForm
	return m, m.formView.StartCreate(m.boardView.FocusedUserID())
}

// openEditForm routes to the project form in edit mode. Admins can edit
// any project, everyone else only their own.
func (m Model) openEditForm(p model.Project) (tea.Model, tea.Cmd) {
	if !m.mayEdit(p) {
		m.notice = "You can only edit your own projects."
		return m, nil
	}

	m.formView.SetUsers(m.loadedUsers())
	m.previousView = m.currentView
	m.currentView = ViewProjectForm
	return m, m.formView.StartEdit(p)
}

// handleCreate stages an optimistic create and sends it to the gateway.
func (m Model) handleCreate(in model.CreateProjectInput) (tea.Model, tea.Cmd) {
	ticket, err := m.coord.StageCreate(in)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.rebuildColumns()

	coord := m.coord
	return m, func() tea.Msg {
		created, err := coord.ExecuteCreate(context.Background(), ticket)
		return createSettledMsg{ticket: ticket, created: created, err: err}
	}
}

// handleUpdate stages an optimistic update and sends it to the gateway.
func (m Model) handleUpdate(
	prior model.Project,
	patch model.ProjectPatch,
	fromDrag bool,
) (tea.Model, tea.Cmd) {
	if patch.IsEmpty() {
		m.notice = "Nothing changed."
		return m, nil
	}
	return m.stageAndExecuteUpdate(prior, patch, fromDrag)
}

func (m Model) stageAndExecuteUpdate(
	prior model.Project,
	patch model.ProjectPatch,
	fromDrag bool,
) (tea.Model, tea.Cmd) {
	ticket, err := m.coord.StageUpdate(prior, patch)
	if err != nil {
		m.notice = err.Error()
		if fromDrag {
			m.settleDrag()
		}
		return m, nil
	}
	m.notice = ""
	m.rebuildColumns()

	coord := m.coord
	return m, func() tea.Msg {
		updated, err := coord.ExecuteUpdate(context.Background(), ticket)
		return updateSettledMsg{
			ticket:   ticket,
			updated:  updated,
			err:      err,
			fromDrag: fromDrag,
		}
	}
}

// handleCreateSettled reconciles or rolls back an optimistic create.
func (m Model) handleCreateSettled(msg createSettledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.coord.RollbackCreate(msg.ticket)
		m.notice = "Create failed: " + msg.err.Error()
	} else {
		m.coord.ResolveCreate(msg.ticket, msg.created)
	}
	m.rebuildColumns()
	return m, nil
}

// handleUpdateSettled reconciles or rolls back an optimistic update and
// releases the drag lock when the update came from a drop.
func (m Model) handleUpdateSettled(msg updateSettledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.coord.RollbackUpdate(msg.ticket)
		m.notice = "Update failed: " + msg.err.Error()
	} else {
		m.coord.ResolveUpdate(msg.ticket, msg.updated)
	}

	if msg.fromDrag {
		m.settleDrag()
	}

	cmds := m.refetchStale()
	m.rebuildColumns()
	return m, tea.Batch(cmds...)
}

// settleDrag releases the drag machine and clears the board mirror.
// It runs on both outcomes so a failed move never wedges the board.
func (m *Model) settleDrag() {
	m.drag.Release()
	m.boardView.SetLocked(false)
	m.boardView.SetGrabbed("")
}

// mayEdit reports whether the signed-in user may mutate the project.
func (m Model) mayEdit(p model.Project) bool {
	if m.current == nil {
		return false
	}
	return m.current.IsAdmin() || p.AssignedUserID == m.current.UserID
}

// findProject locates a project in any resident cache entry.
func (m Model) findProject(id string) (model.Project, bool) {
	for _, key := range m.projects.Keys() {
		page, ok := m.projects.Get(key)
		if !ok {
			continue
		}
		for _, p := range page.Items {
			if p.ID == id {
				return p, true
			}
		}
	}
	return model.Project{}, false
}

// rejectionNotice formats a drag rejection for the status line.
func rejectionNotice(err error) string {
	var rej *dnd.Rejection
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return err.Error()
}
