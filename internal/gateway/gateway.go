package gateway

import (
	"context"

	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// ProfileQuery selects a page of user profiles. SearchEmail, when
// non-blank, restricts results to emails containing the substring.
type ProfileQuery struct {
	SearchEmail string
	Offset      int
	Limit       int
}

// ProjectQuery selects a page of projects. AssignedUserID restricts to one
// assignee when non-empty; IsCompleted restricts by status when non-nil.
type ProjectQuery struct {
	AssignedUserID string
	IsCompleted    *bool
	Offset         int
	Limit          int
}

// Gateway is the contract to the remote data service. Implementations
// return records ordered by creation time descending and validate every
// record before handing it to the caller, so malformed rows fail the
// enclosing operation instead of entering the cache.
type Gateway interface {
	// CurrentUserID returns the signed-in user's id, or "" when no
	// session is active.
	CurrentUserID(ctx context.Context) (string, error)

	// Profile returns the profile for the given user id, or nil when
	// no such profile exists.
	Profile(ctx context.Context, userID string) (*model.UserProfile, error)

	// ListProfiles returns a page of user profiles.
	ListProfiles(ctx context.Context, q ProfileQuery) ([]model.UserProfile, error)

	// ListProjects returns a page of projects.
	ListProjects(ctx context.Context, q ProjectQuery) ([]model.Project, error)

	// InsertProject creates a project from the given input. The stored
	// record is returned with server-assigned id and timestamps.
	InsertProject(ctx context.Context, in model.CreateProjectInput) (model.Project, error)

	// UpdateProject applies a partial patch and returns the stored record.
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)

	// SignOut terminates the current session.
	SignOut(ctx context.Context) error
}
