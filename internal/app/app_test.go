package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Anshpatel2434/Demaze-task/internal/cache"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway/gatewaytest"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/refresh"
	"github.com/Anshpatel2434/Demaze-task/internal/session"
)

func appProfile(id string, admin bool) model.UserProfile {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return model.UserProfile{
		ID:        id,
		Email:     id + "@example.com",
		IsAdmin:   admin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func appProject(id, assignee string, completed bool) model.Project {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return model.Project{
		ID:             id,
		AssignedUserID: assignee,
		Title:          "project " + id,
		IsCompleted:    completed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newTestApp(t *testing.T, fake *gatewaytest.Fake) Model {
	t.Helper()
	r := refresh.New(time.Hour)
	t.Cleanup(r.Stop)
	return New(fake, session.NewManager(fake, nil), 5, r)
}

func seedProfiles(t *testing.T, m Model, key cache.ProfileKey, items []model.UserProfile) {
	t.Helper()
	token, ok := m.profiles.BeginFetch(key, 0)
	require.True(t, ok)
	require.True(t, m.profiles.Resolve(token, cache.NewPage(items, 0, key.Limit)))
}

func seedProjects(t *testing.T, m Model, key cache.ProjectKey, items []model.Project) {
	t.Helper()
	token, ok := m.projects.BeginFetch(key, 0)
	require.True(t, ok)
	require.True(t, m.projects.Resolve(token, cache.NewPage(items, 0, key.Limit)))
}

func TestCycleFilterSwitchesColumnKeys(t *testing.T) {
	admin := appProfile("admin-1", true)
	u1 := appProfile("u1", false)
	m := newTestApp(t, &gatewaytest.Fake{UserID: admin.ID})
	m.current = &session.Session{UserID: admin.ID, Profile: admin}
	m.currentView = ViewBoard

	seedProfiles(t, m, m.profileKey(), []model.UserProfile{u1})
	seedProjects(t, m, m.projectKey(u1.ID), []model.Project{
		appProject("p1", "u1", false),
		appProject("p2", "u1", true),
	})
	m.rebuildColumns()

	mdl, cmd := m.handleCycleFilter()
	m = mdl.(Model)
	require.Equal(t, cache.CompletionOpen, m.completion)
	require.NotNil(t, cmd, "open-filter entry is absent, a fetch goes out")

	openKey := m.projectKey(u1.ID)
	require.Equal(t, cache.CompletionOpen, openKey.Completion)
	require.True(t, m.projects.Fetching(openKey))

	mdl, _ = m.handleCycleFilter()
	m = mdl.(Model)
	require.Equal(t, cache.CompletionDone, m.completion)

	// The third step wraps to the unfiltered board, whose entry is still
	// resident: no fetch is issued for it.
	mdl, cmd = m.handleCycleFilter()
	m = mdl.(Model)
	require.Equal(t, cache.CompletionAny, m.completion)
	require.Nil(t, cmd)
	require.False(t, m.projects.Fetching(m.projectKey(u1.ID)))
}

func TestCycleFilterColumnsUseFilteredEntries(t *testing.T) {
	admin := appProfile("admin-1", true)
	u1 := appProfile("u1", false)
	m := newTestApp(t, &gatewaytest.Fake{UserID: admin.ID})
	m.current = &session.Session{UserID: admin.ID, Profile: admin}
	m.currentView = ViewBoard

	seedProfiles(t, m, m.profileKey(), []model.UserProfile{u1})
	all := m.projectKey(u1.ID)
	seedProjects(t, m, all, []model.Project{
		appProject("p1", "u1", false),
		appProject("p2", "u1", true),
	})

	open := all
	open.Completion = cache.CompletionOpen
	seedProjects(t, m, open, []model.Project{appProject("p1", "u1", false)})

	mdl, cmd := m.handleCycleFilter()
	m = mdl.(Model)
	require.Nil(t, cmd, "open-filter entry is resident, no fetch")

	p, ok := m.boardView.SelectedProject()
	require.True(t, ok)
	require.Equal(t, "p1", p.ID)
	// One card left in the lane: the cursor already sits on the last one.
	require.True(t, m.boardView.ProjectSentinelVisible(u1.ID))
}

func TestEditGatedByOwnership(t *testing.T) {
	u1 := appProfile("u1", false)
	m := newTestApp(t, &gatewaytest.Fake{UserID: u1.ID})
	m.current = &session.Session{UserID: u1.ID, Profile: u1}
	m.currentView = ViewBoard

	mdl, cmd := m.openEditForm(appProject("p1", "u1", false))
	got := mdl.(Model)
	require.Equal(t, ViewProjectForm, got.currentView)
	require.NotNil(t, cmd)

	mdl, cmd = m.openEditForm(appProject("p2", "someone-else", false))
	got = mdl.(Model)
	require.Equal(t, ViewBoard, got.currentView)
	require.Nil(t, cmd)
	require.Equal(t, "You can only edit your own projects.", got.notice)
}

func TestManualRefreshGoesThroughRefresher(t *testing.T) {
	m := newTestApp(t, &gatewaytest.Fake{})
	m.currentView = ViewBoard

	handled, _, cmd := m.handleGlobalKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.True(t, handled)
	require.Nil(t, cmd)

	msg := m.refresher.WaitForNext()()
	require.IsType(t, refresh.TickMsg{}, msg)
}
