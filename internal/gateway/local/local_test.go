package local_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/tests/testutil"
)

func TestSeedsAdminSession(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	userID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	profile, err := g.Profile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.True(t, profile.IsAdmin)
}

func TestSignOutClearsSession(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	require.NoError(t, g.SignOut(ctx))
	userID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)
	require.Empty(t, userID)
}

func TestInsertAndListProjects(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	adminID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)

	first, err := g.InsertProject(ctx, model.CreateProjectInput{
		AssignedUserID: adminID,
		Title:          "first",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.False(t, first.IsCompleted)
	require.True(t, first.CreatedByAdmin)

	// Listing is newest-first.
	time.Sleep(5 * time.Millisecond)
	second, err := g.InsertProject(ctx, model.CreateProjectInput{
		AssignedUserID: adminID,
		Title:          "second",
	})
	require.NoError(t, err)

	rows, err := g.ListProjects(ctx, gateway.ProjectQuery{
		AssignedUserID: adminID,
		Limit:          10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, second.ID, rows[0].ID)
	require.Equal(t, first.ID, rows[1].ID)
}

func TestListProjectsPagination(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	adminID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := g.InsertProject(ctx, model.CreateProjectInput{
			AssignedUserID: adminID,
			Title:          "project",
		})
		require.NoError(t, err)
	}

	page1, err := g.ListProjects(ctx, gateway.ProjectQuery{Limit: 5})
	require.NoError(t, err)
	require.Len(t, page1, 5)

	page2, err := g.ListProjects(ctx, gateway.ProjectQuery{Limit: 5, Offset: 5})
	require.NoError(t, err)
	require.Len(t, page2, 2)
}

func TestListProjectsCompletionFilter(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	adminID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)

	open, err := g.InsertProject(ctx, model.CreateProjectInput{
		AssignedUserID: adminID,
		Title:          "open one",
	})
	require.NoError(t, err)

	done, err := g.InsertProject(ctx, model.CreateProjectInput{
		AssignedUserID: adminID,
		Title:          "done one",
	})
	require.NoError(t, err)

	completed := true
	_, err = g.UpdateProject(ctx, done.ID, model.ProjectPatch{IsCompleted: &completed})
	require.NoError(t, err)

	rows, err := g.ListProjects(ctx, gateway.ProjectQuery{IsCompleted: &completed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, done.ID, rows[0].ID)

	notCompleted := false
	rows, err = g.ListProjects(ctx, gateway.ProjectQuery{IsCompleted: &notCompleted, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, open.ID, rows[0].ID)
}

func TestUpdateProject(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	adminID, err := g.CurrentUserID(ctx)
	require.NoError(t, err)

	p, err := g.InsertProject(ctx, model.CreateProjectInput{
		AssignedUserID: adminID,
		Title:          "before",
	})
	require.NoError(t, err)

	title := "after"
	desc := "  some details  "
	updated, err := g.UpdateProject(ctx, p.ID, model.ProjectPatch{
		Title:       &title,
		Description: &desc,
	})
	require.NoError(t, err)
	require.Equal(t, "after", updated.Title)
	require.NotNil(t, updated.Description)
	require.Equal(t, "some details", *updated.Description)

	// Blank description clears the column.
	blank := "  "
	updated, err = g.UpdateProject(ctx, p.ID, model.ProjectPatch{Description: &blank})
	require.NoError(t, err)
	require.Nil(t, updated.Description)

	_, err = g.UpdateProject(ctx, "missing", model.ProjectPatch{Title: &title})
	require.True(t, gateway.IsGatewayError(err))

	_, err = g.UpdateProject(ctx, p.ID, model.ProjectPatch{})
	require.True(t, model.IsValidationError(err))
}

func TestInsertProjectValidation(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	_, err := g.InsertProject(ctx, model.CreateProjectInput{Title: "no assignee"})
	require.True(t, model.IsValidationError(err))
}

func TestListProfilesSearch(t *testing.T) {
	g := testutil.NewLocalGateway(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := g.AddProfile(ctx, model.UserProfile{
		Email:     "alice@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = g.AddProfile(ctx, model.UserProfile{
		Email:     "bob@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	rows, err := g.ListProfiles(ctx, gateway.ProfileQuery{SearchEmail: "alice", Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice@example.com", rows[0].Email)

	rows, err = g.ListProfiles(ctx, gateway.ProfileQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 3, "seed admin plus two added profiles")
}
