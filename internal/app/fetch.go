package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Anshpatel2434/Demaze-task/internal/cache"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/scroll"
	"github.com/Anshpatel2434/Demaze-task/internal/session"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/board"
	"github.com/Anshpatel2434/Demaze-task/internal/ui/login"
)

// sessionMsg carries the result of session bootstrap or sign-in.
type sessionMsg struct {
	sess     *session.Session
	err      error
	signedUp bool
}

// signedOutMsg carries the result of sign-out.
type signedOutMsg struct {
	err error
}

// profilesFetchedMsg carries a resolved user-profile page.
type profilesFetchedMsg struct {
	token cache.Token[cache.ProfileKey]
	page  cache.Page[model.UserProfile]
	err   error
}

// projectsFetchedMsg carries a resolved project page.
type projectsFetchedMsg struct {
	token cache.Token[cache.ProjectKey]
	page  cache.Page[model.Project]
	err   error
}

// profileKey is the filter key for the current user search.
func (m Model) profileKey() cache.ProfileKey {
	return cache.NormalizedProfileKey(m.search, m.pageSize)
}

// projectKey is the column key for one user under the active completion
// filter.
func (m Model) projectKey(userID string) cache.ProjectKey {
	key := cache.AssigneeKey(userID, m.pageSize)
	key.Completion = m.completion
	return key
}

// currentColumnKey reports whether a fetch key belongs to the columns on
// screen right now; fetches for retired filters bypass the scroll
// controllers.
func (m Model) currentColumnKey(key cache.ProjectKey) bool {
	return key.AssignedUserID != "" && key == m.projectKey(key.AssignedUserID)
}

// handleSession installs a resolved session and kicks off the initial
// board fetch, or routes to the login form.
func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.current = nil
		m.currentView = ViewLogin
		return m, m.loginView.Start(msg.err.Error())
	}
	if msg.sess == nil {
		m.current = nil
		m.currentView = ViewLogin
		notice := ""
		if msg.signedUp {
			notice = "Account created. Confirm your email, then sign in."
		}
		return m, m.loginView.Start(notice)
	}

	m.current = msg.sess
	m.currentView = ViewBoard
	m.notice = ""

	cmds := []tea.Cmd{m.refresher.Start()}
	if msg.sess.IsAdmin() {
		cmds = append(cmds, m.fetchProfiles(m.profileKey(), 0)...)
	} else {
		// Non-admins see a single column: their own projects.
		cmds = append(cmds,
			m.fetchProjects(m.projectKey(msg.sess.UserID), 0)...)
		m.rebuildColumns()
	}
	return m, tea.Batch(cmds...)
}

// handleSignedOut returns to the login form after teardown.
func (m Model) handleSignedOut(msg signedOutMsg) (tea.Model, tea.Cmd) {
	m.current = nil
	m.search = ""
	m.completion = cache.CompletionAny
	m.boardView.SetFilterLabel("")
	m.projScrolls = make(map[string]*scroll.Controller)
	m.loads.reset()
	m.currentView = ViewLogin

	notice := ""
	if msg.err != nil {
		notice = msg.err.Error()
	}
	return m, m.loginView.Start(notice)
}

// handleLoginSubmit exchanges credentials in the background.
func (m Model) handleLoginSubmit(msg login.SubmitMsg) (tea.Model, tea.Cmd) {
	sess := m.sess
	return m, func() tea.Msg {
		if msg.SignUp {
			s, err := sess.SignUp(context.Background(), msg.Email, msg.Password)
			return sessionMsg{sess: s, err: err, signedUp: err == nil}
		}
		s, err := sess.SignIn(context.Background(), msg.Email, msg.Password)
		return sessionMsg{sess: s, err: err}
	}
}

// signOut tears the session down in the background.
func (m *Model) signOut() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return signedOutMsg{err: sess.SignOut(context.Background())}
	}
}

// fetchProfiles starts a profile page fetch unless an identical one is
// already in flight.
func (m *Model) fetchProfiles(key cache.ProfileKey, offset int) []tea.Cmd {
	token, ok := m.profiles.BeginFetch(key, offset)
	if !ok {
		return nil
	}
	m.userScroll.FetchStarted()

	gw := m.gw
	limit := key.Limit
	return []tea.Cmd{func() tea.Msg {
		rows, err := gw.ListProfiles(context.Background(), key.Query(offset))
		if err != nil {
			return profilesFetchedMsg{token: token, err: err}
		}
		return profilesFetchedMsg{token: token, page: cache.NewPage(rows, offset, limit)}
	}}
}

// fetchProjects starts a project page fetch for one filter key.
func (m *Model) fetchProjects(key cache.ProjectKey, offset int) []tea.Cmd {
	token, ok := m.projects.BeginFetch(key, offset)
	if !ok {
		return nil
	}
	if m.currentColumnKey(key) {
		m.projScroll(key.AssignedUserID).FetchStarted()
	}

	gw := m.gw
	limit := key.Limit
	return []tea.Cmd{func() tea.Msg {
		rows, err := gw.ListProjects(context.Background(), key.Query(offset))
		if err != nil {
			return projectsFetchedMsg{token: token, err: err}
		}
		return projectsFetchedMsg{token: token, page: cache.NewPage(rows, offset, limit)}
	}}
}

// handleProfilesFetched merges a profile page and fetches project
// columns for any newly visible users.
func (m Model) handleProfilesFetched(msg profilesFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.profiles.Fail(msg.token)
		// Flag the entry so a settled mutation or tick retries it.
		m.profiles.MarkStale(msg.token.Key)
		m.userScroll.FetchFinished()
		m.notice = fetchNotice(msg.err)
		return m, nil
	}

	m.profiles.Resolve(msg.token, msg.page)

	var cmds []tea.Cmd
	if page, ok := m.profiles.Get(m.profileKey()); ok {
		m.userScroll.SetHasMore(page.HasMore)
		for _, u := range page.Items {
			key := m.projectKey(u.ID)
			if _, resident := m.projects.Get(key); !resident {
				cmds = append(cmds, m.fetchProjects(key, 0)...)
			}
		}
	}
	m.userScroll.FetchFinished()
	m.rebuildColumns()

	cmds = append(cmds, m.syncScroll()...)
	return m, tea.Batch(cmds...)
}

// handleProjectsFetched merges a project page into its column.
func (m Model) handleProjectsFetched(msg projectsFetchedMsg) (tea.Model, tea.Cmd) {
	uid := msg.token.Key.AssignedUserID
	onScreen := m.currentColumnKey(msg.token.Key)

	if msg.err != nil {
		m.projects.Fail(msg.token)
		// Flag the entry so a settled mutation or tick retries it.
		m.projects.MarkStale(msg.token.Key)
		if onScreen {
			m.projScroll(uid).FetchFinished()
		}
		m.notice = fetchNotice(msg.err)
		return m, nil
	}

	m.projects.Resolve(msg.token, msg.page)
	if onScreen {
		if page, ok := m.projects.Get(msg.token.Key); ok {
			m.projScroll(uid).SetHasMore(page.HasMore)
		}
		m.projScroll(uid).FetchFinished()
	}
	m.rebuildColumns()

	return m, tea.Batch(m.syncScroll()...)
}

// handleSearch commits a new user search: the filter key changes, so
// the matching entry is (re)fetched from offset zero.
func (m Model) handleSearch(msg board.SearchMsg) (tea.Model, tea.Cmd) {
	m.search = msg.Query

	// The old sentinel belongs to the previous filter; retire it so a
	// late trigger cannot load pages for the wrong key.
	m.userScroll.Teardown()
	loads := m.loads
	m.userScroll = scroll.New(func() { loads.users = true })

	cmds := m.fetchProfiles(m.profileKey(), 0)
	m.rebuildColumns()
	return m, tea.Batch(cmds...)
}

// handleCycleFilter advances the completion filter. Columns switch to
// the new filter's keys immediately; entries not yet resident under
// those keys are fetched from offset zero.
func (m Model) handleCycleFilter() (tea.Model, tea.Cmd) {
	if m.current == nil {
		return m, nil
	}

	m.completion = m.completion.Next()
	m.notice = "Showing " + m.completion.String() + " projects."

	// Column scroll state belongs to the previous filter's keys.
	for _, c := range m.projScrolls {
		c.Teardown()
	}
	m.projScrolls = make(map[string]*scroll.Controller)
	m.loads.projects = make(map[string]bool)

	label := ""
	if m.completion != cache.CompletionAny {
		label = m.completion.String()
	}
	m.boardView.SetFilterLabel(label)

	var cmds []tea.Cmd
	users, _ := m.boardUsers()
	for _, u := range users {
		key := m.projectKey(u.ID)
		if _, resident := m.projects.Get(key); !resident {
			cmds = append(cmds, m.fetchProjects(key, 0)...)
		}
	}
	m.rebuildColumns()
	return m, tea.Batch(cmds...)
}

// refetchResident refetches every resident entry from offset zero,
// used by the manual refresh key and the background ticker.
func (m *Model) refetchResident() []tea.Cmd {
	var cmds []tea.Cmd
	if m.current == nil {
		return nil
	}
	if m.current.IsAdmin() {
		cmds = append(cmds, m.fetchProfiles(m.profileKey(), 0)...)
	}
	for _, key := range m.projects.Keys() {
		cmds = append(cmds, m.fetchProjects(key, 0)...)
	}
	return cmds
}

// refetchStale refetches only the entries flagged by a settled
// mutation.
func (m *Model) refetchStale() []tea.Cmd {
	var cmds []tea.Cmd
	for _, key := range m.projects.StaleKeys() {
		cmds = append(cmds, m.fetchProjects(key, 0)...)
	}
	return cmds
}

// projScroll returns (creating on demand) the scroll controller for one
// user column.
func (m *Model) projScroll(userID string) *scroll.Controller {
	c, ok := m.projScrolls[userID]
	if !ok {
		loads := m.loads
		uid := userID
		c = scroll.New(func() { loads.projects[uid] = true })
		m.projScrolls[userID] = c
	}
	return c
}

// syncScroll pushes the board's sentinel positions into the scroll
// controllers and converts any fired triggers into fetch commands.
func (m *Model) syncScroll() []tea.Cmd {
	m.userScroll.SetVisible(m.boardView.UsersSentinelVisible())

	focused := m.boardView.FocusedUserID()
	for uid := range m.projScrolls {
		visible := uid == focused && m.boardView.ProjectSentinelVisible(uid)
		m.projScrolls[uid].SetVisible(visible)
	}

	var cmds []tea.Cmd
	if m.loads.users {
		m.loads.users = false
		key := m.profileKey()
		if page, ok := m.profiles.Get(key); ok && page.HasMore {
			cmds = append(cmds, m.fetchProfiles(key, page.NextOffset)...)
		}
	}
	for uid := range m.loads.projects {
		delete(m.loads.projects, uid)
		key := m.projectKey(uid)
		if page, ok := m.projects.Get(key); ok && page.HasMore {
			cmds = append(cmds, m.fetchProjects(key, page.NextOffset)...)
		}
	}
	return cmds
}

// boardUsers returns the users whose columns are on screen, with the
// has-more flag of the user list itself.
func (m Model) boardUsers() ([]model.UserProfile, bool) {
	if m.current == nil {
		return nil, false
	}
	if !m.current.IsAdmin() {
		return []model.UserProfile{m.current.Profile}, false
	}
	page, ok := m.profiles.Get(m.profileKey())
	if !ok {
		return nil, false
	}
	return page.Items, page.HasMore
}

// rebuildColumns regenerates the board snapshot from the caches.
func (m *Model) rebuildColumns() {
	users, usersHasMore := m.boardUsers()
	if users == nil {
		m.boardView.SetColumns(nil, usersHasMore)
		return
	}

	columns := make([]board.Column, 0, len(users))
	for _, u := range users {
		key := m.projectKey(u.ID)
		col := board.Column{User: u, Fetching: m.projects.Fetching(key)}
		if page, ok := m.projects.Get(key); ok {
			col.Projects = page.Items
			col.HasMore = page.HasMore
		}
		columns = append(columns, col)
	}
	m.boardView.SetColumns(columns, usersHasMore)
}

// loadedUsers returns the users currently on the board, for the form's
// assignee selector.
func (m Model) loadedUsers() []model.UserProfile {
	if m.current != nil && !m.current.IsAdmin() {
		return []model.UserProfile{m.current.Profile}
	}
	page, ok := m.profiles.Get(m.profileKey())
	if !ok {
		return nil
	}
	return page.Items
}

// fetchNotice renders a gateway failure for the status line.
func fetchNotice(err error) string {
	if gateway.IsAuthError(err) {
		return "Session expired. Press Q to sign in again."
	}
	return err.Error()
}
