package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validProject() Project {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return Project{
		ID:             "p1",
		AssignedUserID: "u1",
		Title:          "ship it",
		CreatedByAdmin: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestProjectValidate(t *testing.T) {
	require.NoError(t, validProject().Validate())

	p := validProject()
	p.Title = ""
	p.AssignedUserID = ""
	err := p.Validate()
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "title cannot be empty")
	require.Contains(t, err.Error(), "assigned user is required")

	p = validProject()
	p.UpdatedAt = p.CreatedAt.Add(-time.Hour)
	require.Error(t, p.Validate())
}

func TestNormalizeDescription(t *testing.T) {
	require.Nil(t, NormalizeDescription("   "))
	require.Nil(t, NormalizeDescription(""))

	d := NormalizeDescription("  details  ")
	require.NotNil(t, d)
	require.Equal(t, "details", *d)
}

func TestCreateProjectInputValidate(t *testing.T) {
	in := CreateProjectInput{AssignedUserID: "u1", Title: "  work  "}
	in = in.Normalize()
	require.NoError(t, in.Validate())
	require.Equal(t, "work", in.Title)

	require.Error(t, CreateProjectInput{Title: "work"}.Validate())
	require.Error(t, CreateProjectInput{AssignedUserID: "u1", Title: "  "}.Validate())
}

func TestProjectPatchValidate(t *testing.T) {
	require.Error(t, ProjectPatch{}.Validate())

	empty := ""
	require.Error(t, ProjectPatch{Title: &empty}.Validate())
	require.Error(t, ProjectPatch{AssignedUserID: &empty}.Validate())

	title := "renamed"
	require.NoError(t, ProjectPatch{Title: &title}.Validate())
}

func TestProjectPatchFields(t *testing.T) {
	blank := "   "
	completed := true
	patch := ProjectPatch{Description: &blank, IsCompleted: &completed}

	fields := patch.Fields()
	require.Len(t, fields, 2)
	require.Nil(t, fields["description"], "blank description maps to explicit null")
	require.Equal(t, true, fields["is_completed"])
	require.NotContains(t, fields, "title")
}

func TestProjectPatchApply(t *testing.T) {
	p := validProject()
	now := p.UpdatedAt.Add(time.Hour)

	assignee := "u2"
	title := "  renamed  "
	patched := ProjectPatch{AssignedUserID: &assignee, Title: &title}.Apply(p, now)

	require.Equal(t, "u2", patched.AssignedUserID)
	require.Equal(t, "renamed", patched.Title)
	require.Equal(t, now, patched.UpdatedAt)
	// The original record is untouched.
	require.Equal(t, "u1", p.AssignedUserID)
}

func TestUserProfileValidate(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	u := UserProfile{ID: "u1", Email: "alice@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, u.Validate())

	u.Email = "not-an-email"
	require.True(t, IsValidationError(u.Validate()))
}

func TestUserProfileDisplayName(t *testing.T) {
	u := UserProfile{Email: "alice@example.com"}
	require.Equal(t, "alice@example.com", u.DisplayName())

	name := "Alice"
	u.FullName = &name
	require.Equal(t, "Alice", u.DisplayName())
}
