// Package app wires the dashboard together: it owns the query caches,
// the mutation coordinator, and the drag machine, and routes Bubble Tea
// messages between the views and the gateway. All cache writes happen
// here, on the event loop; gateway calls run inside tea.Cmd goroutines
// and re-enter as messages.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Anshpatel2434/Demaze-task/internal/cache"
	"github.com/Anshpatel2434/Demaze-task/internal/dnd"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/keys"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/mutate"
	"github.com/Anshpatel2434/Demaze-task/internal/refresh"
	"github.com/Anshpatel2434/Demaze-task/internal/scroll"
	"github.com/Anshpatel2434/Demaze-task/internal/session"
	"github.com/Anshpatel2434/Demaze-task/internal/ui"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/board"
	helpview "github.com/Anshpatel2434/Demaze-task/internal/ui/help"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/login"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/projectform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewBoard
	ViewProjectForm
	ViewHelp
)

// loadRequests collects load-more triggers fired by the scroll
// controllers during an Update pass. It lives behind a pointer so the
// controllers' closures stay valid across Bubble Tea model copies.
type loadRequests struct {
	users    bool
	projects map[string]bool
}

func (r *loadRequests) reset() {
	r.users = false
	r.projects = make(map[string]bool)
}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ready        bool

	gw       gateway.Gateway
	sess     *session.Manager
	current  *session.Session
	pageSize int

	profiles   *cache.Store[cache.ProfileKey, model.UserProfile]
	projects   *cache.Store[cache.ProjectKey, model.Project]
	coord      *mutate.Coordinator
	drag       *dnd.Machine
	completion cache.Completion

	userScroll  *scroll.Controller
	projScrolls map[string]*scroll.Controller
	loads       *loadRequests

	refresher *refresh.Refresher

	keys      *keys.KeyMap
	boardView board.Model
	formView  projectform.Model
	loginView login.Model
	helpView  helpview.Model

	notice string
	search string
}

// New creates the root application model.
func New(gw gateway.Gateway, sess *session.Manager, pageSize int, refresher *refresh.Refresher) Model {
	k := keys.DefaultKeyMap()

	profiles := cache.NewStore[cache.ProfileKey, model.UserProfile]()
	projects := cache.NewStore[cache.ProjectKey, model.Project]()
	sess.OnSignOut(profiles.Clear)
	sess.OnSignOut(projects.Clear)

	loads := &loadRequests{projects: make(map[string]bool)}

	m := Model{
		currentView: ViewLogin,
		gw:          gw,
		sess:        sess,
		pageSize:    pageSize,
		profiles:    profiles,
		projects:    projects,
		coord:       mutate.New(gw, projects, pageSize),
		drag:        dnd.NewMachine(),
		projScrolls: make(map[string]*scroll.Controller),
		loads:       loads,
		refresher:   refresher,
		keys:        k,
		boardView:   board.New(k, 80, 24),
		formView:    projectform.New(80, 24),
		loginView:   login.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
	m.userScroll = scroll.New(func() { loads.users = true })
	return m
}

// Init bootstraps the session from any persisted token.
func (m Model) Init() tea.Cmd {
	return m.bootstrap()
}

// bootstrap resolves the current identity in the background.
func (m Model) bootstrap() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		s, err := sess.Bootstrap(context.Background())
		return sessionMsg{sess: s, err: err}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.loginView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionMsg:
		return m.handleSession(msg)

	case signedOutMsg:
		return m.handleSignedOut(msg)

	case profilesFetchedMsg:
		return m.handleProfilesFetched(msg)

	case projectsFetchedMsg:
		return m.handleProjectsFetched(msg)

	case createSettledMsg:
		return m.handleCreateSettled(msg)

	case updateSettledMsg:
		return m.handleUpdateSettled(msg)

	case refresh.TickMsg:
		cmds := m.refetchResident()
		cmds = append(cmds, m.refresher.WaitForNext())
		return m, tea.Batch(cmds...)

	case board.SearchMsg:
		return m.handleSearch(msg)

	case board.CycleFilterMsg:
		return m.handleCycleFilter()

	case board.CardGrabbedMsg:
		return m.handleGrab(msg)

	case board.CardDroppedMsg:
		return m.handleDrop(msg)

	case board.DragCancelledMsg:
		m.drag.Cancel()
		m.boardView.SetGrabbed("")
		return m, nil

	case board.NewProjectMsg:
		return m.openCreateForm()

	case board.EditProjectMsg:
		return m.openEditForm(msg.Project)

	case board.ToggleCompleteMsg:
		return m.handleToggleComplete(msg)

	case projectform.ProjectCreatedMsg:
		m.currentView = ViewBoard
		return m.handleCreate(msg.Input)

	case projectform.ProjectUpdatedMsg:
		m.currentView = ViewBoard
		return m.handleUpdate(msg.Prior, msg.Patch, false)

	case projectform.FormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case login.SubmitMsg:
		return m.handleLoginSubmit(msg)

	case login.CancelMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active
// view. Views with text input get first refusal.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.refresher.Stop()
		return true, m, tea.Quit
	}

	// Forms and the search bar own their keystrokes.
	if m.currentView != ViewBoard && m.currentView != ViewHelp {
		return false, m, nil
	}
	if m.boardView.Searching() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewBoard && m.drag.Phase() == dnd.Idle {
			m.refresher.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "r":
		// Routed through the refresher so a manual refresh and a due
		// tick are the same event.
		if m.currentView == ViewBoard {
			m.refresher.Trigger()
			return true, m, nil
		}

	case "Q":
		if m.currentView == ViewBoard && m.drag.Phase() == dnd.Idle {
			return true, m, m.signOut()
		}
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
		cmds := append([]tea.Cmd{cmd}, m.syncScroll()...)
		return m, tea.Batch(cmds...)
	case ViewProjectForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Demaze", m.sessionLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewProjectForm:
		return m.formView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// sessionLabel describes who is signed in for the header's right side.
func (m Model) sessionLabel() string {
	if m.current == nil {
		return "signed out"
	}
	label := m.current.Profile.DisplayName()
	if m.current.IsAdmin() {
		label += " (admin)"
	}
	return label
}

// keyHints returns keyboard shortcut hints for the status bar. A
// pending notice takes priority over the hints.
func (m Model) keyHints() string {
	if m.notice != "" && m.currentView == ViewBoard {
		return m.notice
	}

	switch m.currentView {
	case ViewLogin:
		return "enter submit | esc quit"
	case ViewProjectForm:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help"
	default:
		switch m.drag.Phase() {
		case dnd.Dragging:
			return "h/l choose column | d drop | esc cancel"
		case dnd.Locked:
			return "saving move..."
		}
		if m.current != nil && m.current.IsAdmin() {
			return "q quit | ? help | g grab | n new | e edit | c complete | tab filter | / search | r refresh"
		}
		return "q quit | ? help | e edit | c complete | tab filter | r refresh"
	}
}
