package mutate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Anshpatel2434/Demaze-task/internal/cache"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway/gatewaytest"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

const pageSize = 5

func newFixture(t *testing.T) (*Coordinator, *cache.Store[cache.ProjectKey, model.Project], *gatewaytest.Fake) {
	t.Helper()

	fake := &gatewaytest.Fake{}
	fake.Now(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })

	store := cache.NewStore[cache.ProjectKey, model.Project]()
	coord := New(fake, store, pageSize)
	coord.Clock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })
	coord.TempIDs(func() string { return "temp-1" })
	return coord, store, fake
}

func project(id, assignee string, completed bool) model.Project {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return model.Project{
		ID:             id,
		AssignedUserID: assignee,
		Title:          "project " + id,
		CreatedByAdmin: true,
		IsCompleted:    completed,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func seed(
	t *testing.T,
	store *cache.Store[cache.ProjectKey, model.Project],
	key cache.ProjectKey,
	projects ...model.Project,
) {
	t.Helper()
	tok, ok := store.BeginFetch(key, 0)
	require.True(t, ok)
	require.True(t, store.Resolve(tok, cache.NewPage(projects, 0, key.Limit)))
}

func ids(t *testing.T, store *cache.Store[cache.ProjectKey, model.Project], key cache.ProjectKey) []string {
	t.Helper()
	page, ok := store.Get(key)
	require.True(t, ok)
	out := make([]string, len(page.Items))
	for i, p := range page.Items {
		out[i] = p.ID
	}
	return out
}

func TestCreateShowsPlaceholderThenServerRecord(t *testing.T) {
	coord, store, fake := newFixture(t)
	def := cache.DefaultProjectKey(pageSize)
	seed(t, store, def, project("p1", "u1", false))

	ticket, err := coord.StageCreate(model.CreateProjectInput{
		AssignedUserID: "u1",
		Title:          "new work",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"temp-1", "p1"}, ids(t, store, def))

	created, err := coord.ExecuteCreate(context.Background(), ticket)
	require.NoError(t, err)
	coord.ResolveCreate(ticket, created)

	require.Equal(t, []string{created.ID, "p1"}, ids(t, store, def))
	require.NotEqual(t, "temp-1", created.ID)
	require.Equal(t, 1, fake.CallCount("insert_project"))
}

func TestCreateAlsoPopulatesMatchingColumn(t *testing.T) {
	coord, store, _ := newFixture(t)
	def := cache.DefaultProjectKey(pageSize)
	colU1 := cache.AssigneeKey("u1", pageSize)
	colU2 := cache.AssigneeKey("u2", pageSize)
	seed(t, store, def)
	seed(t, store, colU1)
	seed(t, store, colU2)

	ticket, err := coord.StageCreate(model.CreateProjectInput{
		AssignedUserID: "u1",
		Title:          "column work",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"temp-1"}, ids(t, store, def))
	require.Equal(t, []string{"temp-1"}, ids(t, store, colU1))
	require.Empty(t, ids(t, store, colU2))

	coord.ResolveCreate(ticket, project("real-9", "u1", false))
	require.Equal(t, []string{"real-9"}, ids(t, store, colU1))
	require.Empty(t, ids(t, store, colU2))
}

func TestCreateRollbackRemovesPlaceholder(t *testing.T) {
	coord, store, fake := newFixture(t)
	fake.InsertErr = errors.New("boom")
	def := cache.DefaultProjectKey(pageSize)
	seed(t, store, def, project("p1", "u1", false))

	ticket, err := coord.StageCreate(model.CreateProjectInput{
		AssignedUserID: "u1",
		Title:          "doomed",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"temp-1", "p1"}, ids(t, store, def))

	_, err = coord.ExecuteCreate(context.Background(), ticket)
	require.Error(t, err)
	coord.RollbackCreate(ticket)

	require.Equal(t, []string{"p1"}, ids(t, store, def))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	coord, store, _ := newFixture(t)
	seed(t, store, cache.DefaultProjectKey(pageSize))

	_, err := coord.StageCreate(model.CreateProjectInput{Title: "   "})
	require.True(t, model.IsValidationError(err))
	require.Empty(t, ids(t, store, cache.DefaultProjectKey(pageSize)))
}

func TestUpdateMovesProjectBetweenColumnsWithoutRefetch(t *testing.T) {
	coord, store, fake := newFixture(t)
	colU1 := cache.AssigneeKey("u1", pageSize)
	colU2 := cache.AssigneeKey("u2", pageSize)

	moving := project("p1", "u1", false)
	fake.Projects = []model.Project{moving}
	seed(t, store, colU1, moving)
	seed(t, store, colU2)

	target := "u2"
	ticket, err := coord.StageUpdate(moving, model.ProjectPatch{AssignedUserID: &target})
	require.NoError(t, err)

	// The card leaves its source column and appears in the target one
	// before any network round-trip.
	require.Empty(t, ids(t, store, colU1))
	require.Equal(t, []string{"p1"}, ids(t, store, colU2))
	require.Zero(t, fake.CallCount("list_projects"))

	updated, err := coord.ExecuteUpdate(context.Background(), ticket)
	require.NoError(t, err)
	coord.ResolveUpdate(ticket, updated)

	require.Empty(t, ids(t, store, colU1))
	require.Equal(t, []string{"p1"}, ids(t, store, colU2))
	page, _ := store.Get(colU2)
	require.Equal(t, "u2", page.Items[0].AssignedUserID)
}

func TestUpdateRollbackRestoresEveryEntry(t *testing.T) {
	coord, store, fake := newFixture(t)
	fake.UpdateErr = errors.New("boom")

	def := cache.DefaultProjectKey(pageSize)
	colU1 := cache.AssigneeKey("u1", pageSize)
	colU2 := cache.AssigneeKey("u2", pageSize)

	moving := project("p1", "u1", false)
	other := project("p2", "u1", false)
	seed(t, store, def, moving, other)
	seed(t, store, colU1, moving, other)
	seed(t, store, colU2)

	target := "u2"
	ticket, err := coord.StageUpdate(moving, model.ProjectPatch{AssignedUserID: &target})
	require.NoError(t, err)

	_, err = coord.ExecuteUpdate(context.Background(), ticket)
	require.Error(t, err)
	coord.RollbackUpdate(ticket)

	require.Equal(t, []string{"p1", "p2"}, ids(t, store, def))
	require.Equal(t, []string{"p1", "p2"}, ids(t, store, colU1))
	require.Empty(t, ids(t, store, colU2))
	page, _ := store.Get(def)
	require.Equal(t, "u1", page.Items[0].AssignedUserID)
}

func TestUpdateCompletionLeavesOpenFilter(t *testing.T) {
	coord, store, _ := newFixture(t)
	open := cache.ProjectKey{Completion: cache.CompletionOpen, Limit: pageSize}
	done := cache.ProjectKey{Completion: cache.CompletionDone, Limit: pageSize}

	p := project("p1", "u1", false)
	seed(t, store, open, p)
	seed(t, store, done)

	completed := true
	_, err := coord.StageUpdate(p, model.ProjectPatch{IsCompleted: &completed})
	require.NoError(t, err)

	require.Empty(t, ids(t, store, open))
	require.Equal(t, []string{"p1"}, ids(t, store, done))
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	coord, store, _ := newFixture(t)
	p := project("p1", "u1", false)
	seed(t, store, cache.DefaultProjectKey(pageSize), p)

	_, err := coord.StageUpdate(p, model.ProjectPatch{})
	require.True(t, model.IsValidationError(err))
	require.Equal(t, []string{"p1"}, ids(t, store, cache.DefaultProjectKey(pageSize)))
}

func TestResolveUpdateMarksContainingEntriesStale(t *testing.T) {
	coord, store, fake := newFixture(t)
	colU2 := cache.AssigneeKey("u2", pageSize)

	moving := project("p1", "u1", false)
	fake.Projects = []model.Project{moving}
	seed(t, store, cache.AssigneeKey("u1", pageSize), moving)
	seed(t, store, colU2)

	target := "u2"
	ticket, err := coord.StageUpdate(moving, model.ProjectPatch{AssignedUserID: &target})
	require.NoError(t, err)

	updated, err := coord.ExecuteUpdate(context.Background(), ticket)
	require.NoError(t, err)
	coord.ResolveUpdate(ticket, updated)

	require.Equal(t, []cache.ProjectKey{colU2}, store.StaleKeys())
}
